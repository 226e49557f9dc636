package extract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

// ErrNoLayout is returned when no decode table exists for a classification.
var ErrNoLayout = fmt.Errorf("no layout for classification")

// ErrShortData is returned when the payload is shorter than the layout's
// minimum; the decode fails closed instead of reading out of bounds.
var ErrShortData = fmt.Errorf("data shorter than layout minimum")

// Extract decodes a classified log into a structured lock description using
// the layout table for its (platform, version).
func Extract(log model.LogRecord, cls model.LockClassification) (model.ExtractedLock, error) {
	layout, ok := LayoutFor(cls)
	if !ok {
		return model.ExtractedLock{}, ErrNoLayout
	}

	dataWords, err := words(log.Data)
	if err != nil {
		return model.ExtractedLock{}, err
	}
	if len(dataWords) < layout.MinWords {
		return model.ExtractedLock{}, ErrShortData
	}

	var (
		token    common.Address
		paired   common.Address
		manager  common.Address
		amount   *big.Int
		tokenID  *big.Int
		unlockAt uint64
		hasUnlok bool
	)

	for _, field := range layout.Fields {
		switch field.Kind {
		case FieldToken:
			token = wordAddress(dataWords[field.Index])
		case FieldPairedToken:
			paired = wordAddress(dataWords[field.Index])
		case FieldNFTManager:
			manager = wordAddress(dataWords[field.Index])
		case FieldTokenTopic:
			token, err = topicAddress(log.Topics, field.Index)
			if err != nil {
				return model.ExtractedLock{}, err
			}
		case FieldAmount:
			amount = wordBig(dataWords[field.Index])
		case FieldUnlockTime:
			unlockAt, hasUnlok = unlockFromWord(wordBig(dataWords[field.Index]))
		case FieldTokenID:
			tokenID = wordBig(dataWords[field.Index])
		case FieldTokenIDTopic:
			tokenID, err = topicBig(log.Topics, field.Index)
			if err != nil {
				return model.ExtractedLock{}, err
			}
		}
	}

	if layout.ManagerFromAddress {
		manager = common.HexToAddress(log.Address)
	}

	lock := model.ExtractedLock{
		Amount:         amount,
		UnlockAt:       unlockAt,
		HasUnlock:      hasUnlok,
		IsLP:           layout.IsLP,
		NeedsLPProbe:   layout.ProbeLP,
		NeedsNFTLookup: layout.NFTLookup,
	}
	if lock.Amount == nil {
		lock.Amount = new(big.Int)
	}

	if layout.NFTLookup {
		if tokenID == nil {
			return model.ExtractedLock{}, fmt.Errorf("layout missing token id")
		}
		lock.NFTManager = manager.Hex()
		lock.TokenID = tokenID
		return lock, nil
	}

	if token == (common.Address{}) {
		return model.ExtractedLock{}, fmt.Errorf("layout yielded zero token address")
	}

	if paired != (common.Address{}) {
		primary, pairedOut := SplitPrimary(log.ChainID, token, paired)
		lock.Token = primary.Hex()
		lock.Paired = pairedOut.Hex()
	} else {
		lock.Token = token.Hex()
	}
	return lock, nil
}
