package model

// LogRecord is the normalized representation of a raw chain log handed in by
// the indexer feed. Topics[0] carries the event signature hash.
type LogRecord struct {
	ChainID     uint64   `json:"chain_id"`
	BlockNumber uint64   `json:"block_number"`
	BlockHash   string   `json:"block_hash"`
	TxHash      string   `json:"tx_hash"`
	TxIndex     uint64   `json:"tx_index"`
	LogIndex    uint64   `json:"log_index"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	Removed     bool     `json:"removed"`
	Timestamp   uint64   `json:"timestamp"`

	// Optional transaction context, present when the feed decodes it.
	TxFrom     string `json:"tx_from,omitempty"`
	TxSelector string `json:"tx_selector,omitempty"`
}

// ABIEntry is one event definition supplied alongside a batch. The classifier
// derives the topic hash from Name and Inputs.
type ABIEntry struct {
	Name   string   `json:"name"`
	Inputs []string `json:"inputs"`
}
