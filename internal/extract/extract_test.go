package extract

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

func packWords(words ...string) string {
	var sb strings.Builder
	sb.WriteString("0x")
	for _, w := range words {
		sb.WriteString(w)
	}
	return sb.String()
}

func numWord(value *big.Int) string {
	return fmt.Sprintf("%064x", value)
}

func addrWord(address common.Address) string {
	return fmt.Sprintf("%064x", new(big.Int).SetBytes(address.Bytes()))
}

func TestExtractTeamFinanceDeposit(t *testing.T) {
	token := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	amount := big.NewInt(1_000_000)

	log := model.LogRecord{
		ChainID: 1,
		Data: packWords(
			numWord(big.NewInt(7)),
			addrWord(token),
			addrWord(common.HexToAddress("0x1111111111111111111111111111111111111111")),
			numWord(amount),
			numWord(big.NewInt(1900000000)),
		),
	}
	cls := model.LockClassification{Platform: model.PlatformTeamFinance, Version: "v2", EventName: "Deposit"}

	lock, err := Extract(log, cls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Token != token.Hex() {
		t.Fatalf("token mismatch: %s", lock.Token)
	}
	if lock.Amount.Cmp(amount) != 0 {
		t.Fatalf("amount mismatch: %s", lock.Amount)
	}
	if !lock.HasUnlock || lock.UnlockAt != 1900000000 {
		t.Fatalf("unlock mismatch: %+v", lock)
	}
	if !lock.NeedsLPProbe {
		t.Fatalf("expected LP probe flag")
	}
	if lock.IsLP || lock.NeedsNFTLookup {
		t.Fatalf("unexpected flags: %+v", lock)
	}
}

func TestExtractShortDataFailsClosed(t *testing.T) {
	token := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	cls := model.LockClassification{Platform: model.PlatformTeamFinance, Version: "v2"}

	// One word short of the layout minimum.
	log := model.LogRecord{
		ChainID: 1,
		Data: packWords(
			numWord(big.NewInt(7)),
			addrWord(token),
			numWord(big.NewInt(0)),
			numWord(big.NewInt(500)),
		),
	}
	if _, err := Extract(log, cls); !errors.Is(err, ErrShortData) {
		t.Fatalf("expected short data error, got %v", err)
	}

	// Word-misaligned data must also fail closed.
	log.Data = packWords(numWord(big.NewInt(1))) + "ff"
	if _, err := Extract(log, cls); err == nil {
		t.Fatalf("expected error for misaligned data")
	}
}

func TestExtractPermanentLock(t *testing.T) {
	token := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	sentinel := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	log := model.LogRecord{
		ChainID: 1,
		Data: packWords(
			numWord(big.NewInt(7)),
			addrWord(token),
			numWord(big.NewInt(0)),
			numWord(big.NewInt(500)),
			numWord(sentinel),
		),
	}
	cls := model.LockClassification{Platform: model.PlatformTeamFinance, Version: "v2"}

	lock, err := Extract(log, cls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.HasUnlock {
		t.Fatalf("sentinel unlock value must mean no unlock timestamp")
	}
}

func TestExtractTokenFromTopic(t *testing.T) {
	token := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	log := model.LogRecord{
		ChainID: 56,
		Topics: []string{
			"0x" + strings.Repeat("11", 32),
			"0x" + addrWord(token),
		},
		Data: packWords(
			numWord(big.NewInt(42)),
			numWord(big.NewInt(1850000000)),
		),
	}
	cls := model.LockClassification{Platform: model.PlatformGoPlus, Version: "v1"}

	lock, err := Extract(log, cls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Token != token.Hex() {
		t.Fatalf("token mismatch: %s", lock.Token)
	}
	if lock.Amount.Int64() != 42 {
		t.Fatalf("amount mismatch: %s", lock.Amount)
	}
	if lock.UnlockAt != 1850000000 {
		t.Fatalf("unlock mismatch: %d", lock.UnlockAt)
	}
}

func TestExtractNFTMint(t *testing.T) {
	manager := common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88")

	log := model.LogRecord{
		ChainID: 1,
		Address: manager.Hex(),
		Topics: []string{
			"0x" + strings.Repeat("22", 32),
			"0x" + strings.Repeat("00", 32),
			"0x" + addrWord(common.HexToAddress("0x3333333333333333333333333333333333333333")),
			"0x" + numWord(big.NewInt(123456)),
		},
		Data: "0x",
	}
	cls := model.LockClassification{Platform: model.PlatformUNCX, Version: "nft-mint"}

	lock, err := Extract(log, cls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lock.NeedsNFTLookup {
		t.Fatalf("expected NFT lookup flag")
	}
	if lock.NFTManager != manager.Hex() {
		t.Fatalf("manager mismatch: %s", lock.NFTManager)
	}
	if lock.TokenID == nil || lock.TokenID.Int64() != 123456 {
		t.Fatalf("token id mismatch: %v", lock.TokenID)
	}
}

func TestExtractPairedTokenOrdering(t *testing.T) {
	weth := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	project := common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")

	log := model.LogRecord{
		ChainID: 1,
		Data: packWords(
			numWord(big.NewInt(1)),
			addrWord(weth),
			addrWord(project),
			numWord(big.NewInt(999)),
			numWord(big.NewInt(1900000000)),
		),
	}
	cls := model.LockClassification{Platform: model.PlatformGoPlus, Version: "v2"}

	lock, err := Extract(log, cls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Token != project.Hex() {
		t.Fatalf("primary should be the project side: %s", lock.Token)
	}
	if lock.Paired != weth.Hex() {
		t.Fatalf("paired should be the native side: %s", lock.Paired)
	}
	if !lock.IsLP {
		t.Fatalf("expected LP flag")
	}
}

func TestExtractUnknownLayout(t *testing.T) {
	cls := model.LockClassification{Platform: model.PlatformUNCX, Version: "v9"}
	if _, err := Extract(model.LogRecord{}, cls); !errors.Is(err, ErrNoLayout) {
		t.Fatalf("expected no-layout error, got %v", err)
	}
}

func TestSplitPrimary(t *testing.T) {
	weth := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	tokenA := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	tokenB := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	primary, paired := SplitPrimary(1, weth, tokenA)
	if primary != tokenA || paired != weth {
		t.Fatalf("native first: got %s / %s", primary.Hex(), paired.Hex())
	}

	primary, paired = SplitPrimary(1, tokenA, weth)
	if primary != tokenA || paired != weth {
		t.Fatalf("native second: got %s / %s", primary.Hex(), paired.Hex())
	}

	// Neither side native: keep order.
	primary, paired = SplitPrimary(1, tokenA, tokenB)
	if primary != tokenA || paired != tokenB {
		t.Fatalf("no native: got %s / %s", primary.Hex(), paired.Hex())
	}

	// Unknown chain: keep order.
	primary, paired = SplitPrimary(999, weth, tokenA)
	if primary != weth || paired != tokenA {
		t.Fatalf("unknown chain: got %s / %s", primary.Hex(), paired.Hex())
	}
}
