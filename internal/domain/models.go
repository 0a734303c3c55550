// Package domain defines the core data types shared across the burrow
// gateway, registry, and provisioning layers.
package domain

// Descriptor is the result of a successful tenant provisioning call.
//
// ID and URL are the gateway's contract; Port and MaxConnCount are
// registry-defined fields the gateway passes through verbatim so the tunnel
// client knows where to dial and how many sockets to maintain.
type Descriptor struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Port         int    `json:"port"`
	MaxConnCount int    `json:"max_conn_count"`
}

// GatewayStats is the aggregate snapshot returned by the status endpoint.
type GatewayStats struct {
	Tunnels int      `json:"tunnels"`
	Mem     MemStats `json:"mem"`
}

// MemStats is the memory-usage portion of [GatewayStats].
type MemStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	NumGC      uint32 `json:"num_gc"`
}

// TenantStats is the per-tenant snapshot returned by the status endpoint.
type TenantStats struct {
	ConnectedSockets int `json:"connected_sockets"`
}

// ErrorResponse is the JSON body the Admin Surface returns for errors.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
