package classify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

var txCounter int

func lockLog(chainID uint64, address string, topic0 common.Hash) model.LogRecord {
	txCounter++
	return model.LogRecord{
		ChainID: chainID,
		TxHash:  fmt.Sprintf("0x%064x", txCounter),
		Address: address,
		Topics:  []string{topic0.Hex()},
		Data:    "0x",
	}
}

func TestClassifyRegistryHit(t *testing.T) {
	c := New(Config{}, nil)

	log := lockLog(1, "0xE2fE530C047f2d85298b07D9333C05737f1435fB", TopicTeamFinanceDeposit)
	cls, ok := c.Classify(log)
	if !ok {
		t.Fatalf("expected classification")
	}
	if cls.Platform != model.PlatformTeamFinance || cls.Version != "v2" || cls.EventName != "Deposit" {
		t.Fatalf("classification mismatch: %+v", cls)
	}
}

func TestClassifyTopicMismatch(t *testing.T) {
	c := New(Config{}, nil)

	// Registered locker, but topic0 belongs to a different platform's event.
	log := lockLog(1, "0xE2fE530C047f2d85298b07D9333C05737f1435fB", TopicUNCXOnDeposit)
	if _, ok := c.Classify(log); ok {
		t.Fatalf("expected rejection for mismatched topic")
	}
}

func TestClassifyUnknownAddress(t *testing.T) {
	c := New(Config{}, nil)

	log := lockLog(1, "0x0000000000000000000000000000000000000123", TopicTeamFinanceDeposit)
	if _, ok := c.Classify(log); ok {
		t.Fatalf("expected rejection for unknown contract")
	}
}

func TestClassifyWrongChain(t *testing.T) {
	c := New(Config{}, nil)

	// Mainnet locker address seen on an unregistered chain.
	log := lockLog(42161, "0xE2fE530C047f2d85298b07D9333C05737f1435fB", TopicTeamFinanceDeposit)
	if _, ok := c.Classify(log); ok {
		t.Fatalf("expected rejection on unregistered chain")
	}
}

func TestClassifyDuplicateTransaction(t *testing.T) {
	c := New(Config{}, nil)

	log := lockLog(1, "0xE2fE530C047f2d85298b07D9333C05737f1435fB", TopicTeamFinanceDeposit)
	log.TxHash = "0x" + strings.Repeat("ab12", 16)
	if _, ok := c.Classify(log); !ok {
		t.Fatalf("first pass should classify")
	}
	if _, ok := c.Classify(log); ok {
		t.Fatalf("second pass should be filtered as duplicate")
	}

	// Case variants of the same hash are still duplicates.
	log.TxHash = "0x" + strings.Repeat("AB12", 16)
	if _, ok := c.Classify(log); ok {
		t.Fatalf("case-variant hash should be filtered as duplicate")
	}
}

func TestClassifyNFTMintFallback(t *testing.T) {
	c := New(Config{}, nil)

	manager := "0xC36442b4a4522E871399CD717aBDD847Ab11FE88"
	log := lockLog(1, manager, TopicERC721Transfer)
	log.Topics = append(log.Topics,
		common.Hash{}.Hex(),
		common.HexToHash("0x3333333333333333333333333333333333333333").Hex(),
		common.BigToHash(common.Big1).Hex(),
	)

	cls, ok := c.Classify(log)
	if !ok {
		t.Fatalf("expected mint classification")
	}
	if cls.Platform != model.PlatformUNCX || cls.Version != "nft-mint" {
		t.Fatalf("classification mismatch: %+v", cls)
	}

	// Non-mint transfer (sender not zero) is not a lock.
	log = lockLog(1, manager, TopicERC721Transfer)
	log.Topics = append(log.Topics,
		common.HexToHash("0x4444444444444444444444444444444444444444").Hex(),
		common.HexToHash("0x3333333333333333333333333333333333333333").Hex(),
		common.BigToHash(common.Big1).Hex(),
	)
	if _, ok := c.Classify(log); ok {
		t.Fatalf("expected rejection for non-mint transfer")
	}

	// Same mint shape on an unknown contract is not a lock.
	log = lockLog(1, "0x0000000000000000000000000000000000000123", TopicERC721Transfer)
	log.Topics = append(log.Topics,
		common.Hash{}.Hex(),
		common.HexToHash("0x3333333333333333333333333333333333333333").Hex(),
		common.BigToHash(common.Big1).Hex(),
	)
	if _, ok := c.Classify(log); ok {
		t.Fatalf("expected rejection for unknown NFT contract")
	}
}

func TestClassifySuppliedABI(t *testing.T) {
	topicMap := TopicMapFromABI([]model.ABIEntry{
		{Name: "LockCreated", Inputs: []string{"uint256", "address", "address", "uint256", "uint256"}},
	})
	c := New(Config{TopicMap: topicMap}, nil)

	// Unregistered contract, but the supplied ABI resolves its topic.
	log := lockLog(8453, "0x0000000000000000000000000000000000000456", TopicGoPlusLockCreated)
	cls, ok := c.Classify(log)
	if !ok {
		t.Fatalf("expected classification via supplied ABI")
	}
	if cls.Platform != model.PlatformGoPlus || cls.Version != "v2" {
		t.Fatalf("classification mismatch: %+v", cls)
	}
}

func TestClassifyAggregatorOverride(t *testing.T) {
	c := New(Config{}, nil)

	log := lockLog(1, "0xE2fE530C047f2d85298b07D9333C05737f1435fB", TopicTeamFinanceDeposit)
	log.TxFrom = "0x71B5759d73262FBb223956913ecF4ecC51057641"

	cls, ok := c.Classify(log)
	if !ok {
		t.Fatalf("expected classification")
	}
	if cls.Platform != model.PlatformAggregator {
		t.Fatalf("expected aggregator attribution, got %+v", cls)
	}

	log = lockLog(1, "0xE2fE530C047f2d85298b07D9333C05737f1435fB", TopicTeamFinanceDeposit)
	log.TxSelector = "0x5AF06FED"

	cls, ok = c.Classify(log)
	if !ok {
		t.Fatalf("expected classification")
	}
	if cls.Platform != model.PlatformAggregator {
		t.Fatalf("expected aggregator attribution via selector, got %+v", cls)
	}
}

func TestTopicMapFromABI(t *testing.T) {
	topicMap := TopicMapFromABI([]model.ABIEntry{
		{Name: "Transfer", Inputs: []string{"address", "address", "uint256"}},
		{Name: "", Inputs: []string{"uint256"}},
	})

	if len(topicMap) != 1 {
		t.Fatalf("expected one entry, got %d", len(topicMap))
	}
	if name, ok := topicMap[TopicERC721Transfer]; !ok || name != "Transfer" {
		t.Fatalf("transfer topic missing: %v", topicMap)
	}
}
