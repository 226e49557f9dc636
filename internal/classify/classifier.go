package classify

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

// zeroTopic is an all-zero 32-byte topic (mint sender on ERC721 transfers).
var zeroTopic = common.Hash{}

// Classifier maps raw logs to lock classifications and filters duplicate
// transactions. Safe for concurrent use.
type Classifier struct {
	logger *zap.Logger
	seen   *DedupeCache
	topics map[common.Hash]string
}

// Config holds classifier construction options.
type Config struct {
	DedupeTTL      time.Duration
	DedupeCapacity int
	// Extra topic->name mappings derived from ABI entries supplied with a batch.
	TopicMap map[common.Hash]string
}

// New builds a Classifier.
func New(cfg Config, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	topics := make(map[common.Hash]string, len(cfg.TopicMap))
	for hash, name := range cfg.TopicMap {
		topics[hash] = name
	}
	return &Classifier{
		logger: logger,
		seen:   NewDedupeCache(cfg.DedupeTTL, cfg.DedupeCapacity),
		topics: topics,
	}
}

// Classify determines whether the log represents a lock event. The second
// return is false when no lock was detected or the transaction is a duplicate.
func (c *Classifier) Classify(log model.LogRecord) (model.LockClassification, bool) {
	if len(log.Topics) == 0 || !common.IsHexAddress(log.Address) {
		return model.LockClassification{}, false
	}

	address := common.HexToAddress(log.Address)
	topic0 := common.HexToHash(log.Topics[0])

	cls, ok := lookupLocker(log.ChainID, address)
	if ok {
		if !c.topicMatches(topic0, cls.EventName) {
			return model.LockClassification{}, false
		}
	} else {
		cls, ok = c.fallback(log, address, topic0)
		if !ok {
			return model.LockClassification{}, false
		}
	}

	if c.seen.Seen(strings.ToLower(log.TxHash)) {
		c.logger.Debug("duplicate lock transaction", zap.String("tx_hash", log.TxHash))
		return model.LockClassification{}, false
	}

	// The aggregator re-emits the five-word deposit shape; re-attributing
	// other event formats would send them through the wrong decode table.
	if agg, ok := c.aggregatorOverride(log); ok && cls.EventName == "Deposit" {
		cls = agg
	}

	return cls, true
}

// fallback handles contracts outside the registry: an ERC721 mint on a known
// position manager is treated as an NFT-style lock.
func (c *Classifier) fallback(log model.LogRecord, address common.Address, topic0 common.Hash) (model.LockClassification, bool) {
	if topic0 == TopicERC721Transfer && len(log.Topics) == 4 {
		if !isNFTManager(log.ChainID, address) {
			return model.LockClassification{}, false
		}
		if common.HexToHash(log.Topics[1]) != zeroTopic {
			return model.LockClassification{}, false
		}
		return model.LockClassification{Platform: model.PlatformUNCX, Version: "nft-mint", EventName: "Transfer"}, true
	}

	if name, ok := c.topics[topic0]; ok {
		if cls, ok := classificationForEvent(name); ok {
			return cls, true
		}
	}

	return model.LockClassification{}, false
}

// aggregatorOverride re-attributes a lock when the initiating transaction came
// from a known operator wallet or invoked a known factory selector.
func (c *Classifier) aggregatorOverride(log model.LogRecord) (model.LockClassification, bool) {
	if log.TxFrom != "" && common.IsHexAddress(log.TxFrom) {
		if _, ok := aggregatorOperators[common.HexToAddress(log.TxFrom)]; ok {
			return model.LockClassification{Platform: model.PlatformAggregator, Version: "v1", EventName: "AggregatedLock"}, true
		}
	}
	if log.TxSelector != "" {
		if _, ok := aggregatorSelectors[strings.ToLower(log.TxSelector)]; ok {
			return model.LockClassification{Platform: model.PlatformAggregator, Version: "v1", EventName: "AggregatedLock"}, true
		}
	}
	return model.LockClassification{}, false
}

func (c *Classifier) topicMatches(topic0 common.Hash, eventName string) bool {
	switch eventName {
	case "Deposit":
		return topic0 == TopicTeamFinanceDeposit
	case "DepositNFT":
		return topic0 == TopicTeamFinanceDepositNFT
	case "onDeposit":
		return topic0 == TopicUNCXOnDeposit
	case "onLock":
		return topic0 == TopicUNCXOnLock
	case "TokenLocked":
		return topic0 == TopicGoPlusTokenLocked
	case "LockCreated":
		return topic0 == TopicGoPlusLockCreated
	default:
		return false
	}
}

// classificationForEvent maps a bare event name (resolved from a supplied ABI)
// onto a platform-agnostic classification.
func classificationForEvent(name string) (model.LockClassification, bool) {
	switch name {
	case "Deposit":
		return model.LockClassification{Platform: model.PlatformTeamFinance, Version: "v2", EventName: name}, true
	case "onDeposit":
		return model.LockClassification{Platform: model.PlatformUNCX, Version: "v2", EventName: name}, true
	case "onLock":
		return model.LockClassification{Platform: model.PlatformUNCX, Version: "v3", EventName: name}, true
	case "TokenLocked":
		return model.LockClassification{Platform: model.PlatformGoPlus, Version: "v1", EventName: name}, true
	case "LockCreated":
		return model.LockClassification{Platform: model.PlatformGoPlus, Version: "v2", EventName: name}, true
	default:
		return model.LockClassification{}, false
	}
}
