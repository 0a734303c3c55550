package tenantid

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strconv"
)

// idPattern accepts 4-63 char pure-alphanumeric IDs, or hyphenated IDs whose
// first and last characters are alphanumeric.
var idPattern = regexp.MustCompile(`^(?:[a-z0-9][a-z0-9-]{4,63}[a-z0-9]|[a-z0-9]{4,63})$`)

// Valid reports whether s is a syntactically acceptable tenant ID.
func Valid(s string) bool {
	return idPattern.MatchString(s)
}

var adjectives = []string{
	"amber", "brave", "calm", "clever", "crisp", "dapper", "eager",
	"fancy", "fuzzy", "gentle", "happy", "humble", "jolly", "keen",
	"lively", "lucky", "mellow", "merry", "nimble", "plucky", "proud",
	"quick", "quiet", "rapid", "shiny", "sleek", "snappy", "spry",
	"sturdy", "sunny", "tidy", "witty",
}

var animals = []string{
	"badger", "beaver", "bison", "crane", "dingo", "falcon", "ferret",
	"gecko", "heron", "ibis", "jackal", "koala", "lemur", "lynx",
	"magpie", "marmot", "moose", "otter", "owl", "panda", "pika",
	"puffin", "quail", "raven", "robin", "seal", "shrew", "stoat",
	"tapir", "toucan", "walrus", "wren",
}

// Random returns a fresh human-readable tenant ID candidate of the form
// adjective-animal-NN. Uniqueness is not guaranteed; collision handling
// belongs to the registry.
func Random() string {
	return adjectives[randIndex(len(adjectives))] +
		"-" + animals[randIndex(len(animals))] +
		"-" + strconv.Itoa(10+randIndex(90))
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; a fixed index still yields a syntactically valid ID.
		return 0
	}
	return int(v.Int64())
}
