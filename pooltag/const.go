package pooltag

// sizes in the pool-tag information buffer
const (
	HeaderSize = 8  // count field plus struct padding before the first record
	RecordSize = 40 // fixed size of one pool-tag record in bytes
	TagSize    = 4  // pool tags are always four ASCII bytes
)

// Printable ASCII range for tag rendering. Bytes outside it become dots,
// matching how kernel debugging tools print pool tags.
const (
	printableMin = 32
	printableMax = 126
)
