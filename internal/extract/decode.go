package extract

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const wordSize = 32

// maxUint64Big bounds timestamps read from a word.
var maxUint64Big = new(big.Int).SetUint64(^uint64(0))

// permanentSentinel is the all-ones 256-bit value some lockers emit for
// locks with no unlock date.
var permanentSentinel = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// words splits ABI-packed hex data into 32-byte words. Trailing partial words
// are rejected so field reads can never run past the buffer.
func words(dataHex string) ([][]byte, error) {
	if strings.TrimSpace(dataHex) == "" || dataHex == "0x" {
		return nil, nil
	}
	data, err := hexutil.Decode(dataHex)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	if len(data)%wordSize != 0 {
		return nil, fmt.Errorf("data length %d is not word aligned", len(data))
	}
	out := make([][]byte, 0, len(data)/wordSize)
	for i := 0; i < len(data); i += wordSize {
		out = append(out, data[i:i+wordSize])
	}
	return out, nil
}

func wordAddress(word []byte) common.Address {
	return common.BytesToAddress(word[wordSize-common.AddressLength:])
}

func wordBig(word []byte) *big.Int {
	return new(big.Int).SetBytes(word)
}

func topicAddress(topics []string, index int) (common.Address, error) {
	if index >= len(topics) {
		return common.Address{}, fmt.Errorf("topic index %d out of range", index)
	}
	data, err := hexutil.Decode(topics[index])
	if err != nil || len(data) != wordSize {
		return common.Address{}, fmt.Errorf("invalid topic at %d", index)
	}
	return wordAddress(data), nil
}

func topicBig(topics []string, index int) (*big.Int, error) {
	if index >= len(topics) {
		return nil, fmt.Errorf("topic index %d out of range", index)
	}
	data, err := hexutil.Decode(topics[index])
	if err != nil || len(data) != wordSize {
		return nil, fmt.Errorf("invalid topic at %d", index)
	}
	return wordBig(data), nil
}

// unlockFromWord normalizes a timestamp word. The permanent-lock sentinel and
// values past uint64 range mean "no unlock timestamp".
func unlockFromWord(value *big.Int) (uint64, bool) {
	if value.Sign() == 0 || value.Cmp(permanentSentinel) == 0 || value.Cmp(maxUint64Big) > 0 {
		return 0, false
	}
	return value.Uint64(), true
}
