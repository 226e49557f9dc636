package classify

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

// registryKey scopes a locker contract to one chain. The same address constant
// may legitimately appear under several chain IDs.
type registryKey struct {
	ChainID uint64
	Address common.Address
}

// Event signature hashes derived at init so the hex can never drift from the
// signature string.
var (
	TopicTeamFinanceDeposit    = crypto.Keccak256Hash([]byte("Deposit(uint256,address,address,uint256,uint256)"))
	TopicTeamFinanceDepositNFT = crypto.Keccak256Hash([]byte("DepositNFT(uint256,address,address,uint256,uint256,uint256)"))
	TopicUNCXOnDeposit         = crypto.Keccak256Hash([]byte("onDeposit(address,address,uint256,uint256,uint256)"))
	TopicUNCXOnLock            = crypto.Keccak256Hash([]byte("onLock(uint256,address,uint256,address,uint256)"))
	TopicGoPlusTokenLocked     = crypto.Keccak256Hash([]byte("TokenLocked(address,uint256,uint256)"))
	TopicGoPlusLockCreated     = crypto.Keccak256Hash([]byte("LockCreated(uint256,address,address,uint256,uint256)"))
	TopicERC721Transfer        = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
)

// lockerRegistry maps known locker contracts to their classification.
var lockerRegistry = map[registryKey]model.LockClassification{
	// Team Finance vaults.
	{1, common.HexToAddress("0xE2fE530C047f2d85298b07D9333C05737f1435fB")}:    {Platform: model.PlatformTeamFinance, Version: "v2", EventName: "Deposit"},
	{56, common.HexToAddress("0x0C89C0407775dd89b12918B9c0aa42Bf96518820")}:   {Platform: model.PlatformTeamFinance, Version: "v2", EventName: "Deposit"},
	{8453, common.HexToAddress("0x4f0Fd563BE89ec8C3e7D595BF3639128C0a7C33A")}: {Platform: model.PlatformTeamFinance, Version: "v2", EventName: "Deposit"},
	{1, common.HexToAddress("0xdbF72370021bABafbcEB05ab10f99ad275c6220A")}:    {Platform: model.PlatformTeamFinance, Version: "v3", EventName: "DepositNFT"},

	// UNCX lockers, versioned per pool generation.
	{1, common.HexToAddress("0x663A5C229c09b049E36dCc11a9B0d4a8Eb9db214")}:  {Platform: model.PlatformUNCX, Version: "v2", EventName: "onDeposit"},
	{56, common.HexToAddress("0xC765bddB93b0D1c1A88282BA0fa6B2d00E3e0c83")}: {Platform: model.PlatformUNCX, Version: "v2", EventName: "onDeposit"},
	{1, common.HexToAddress("0xFD235968e65B0990584585763f837A5b5330e6DE")}:  {Platform: model.PlatformUNCX, Version: "v3", EventName: "onLock"},
	{56, common.HexToAddress("0xfe88DAB083964C56429baa01F37eC2265AbF1557")}: {Platform: model.PlatformUNCX, Version: "v3", EventName: "onLock"},

	// GoPlus-style lockers.
	{56, common.HexToAddress("0x25c9C4B56E820e0DEA438B145284F02D9CA9Bd52")}:   {Platform: model.PlatformGoPlus, Version: "v1", EventName: "TokenLocked"},
	{8453, common.HexToAddress("0xFf00e2AC8a3b59f70087Abb6bF8BA9D249B39d31")}: {Platform: model.PlatformGoPlus, Version: "v2", EventName: "LockCreated"},
}

// nftManagers lists position-manager contracts whose mint transfers count as
// NFT-style locks on the fallback path.
var nftManagers = map[registryKey]struct{}{
	{1, common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88")}:    {},
	{56, common.HexToAddress("0x46A15B0b27311cedF172AB29E4f4766fbE7F4364")}:   {},
	{8453, common.HexToAddress("0x03a520b32C04BF3bEEf7BEb72E919cf822Ed34f1")}: {},
}

// Aggregator attribution: locks initiated by these operator wallets, or
// through these factory selectors, belong to the aggregator regardless of the
// registry hit.
var aggregatorOperators = map[common.Address]struct{}{
	common.HexToAddress("0x71B5759d73262FBb223956913ecF4ecC51057641"): {},
	common.HexToAddress("0x407993575c91ce7643a4d4cCACc9A98c36eE1BBE"): {},
}

var aggregatorSelectors = map[string]struct{}{
	"0x5af06fed": {}, // lockLiquidity(address,uint256,uint256)
	"0x07279357": {}, // createAndLock(address,address,uint24,uint256)
}

// RegistryAddresses returns the locker addresses known for a chain, for use as
// a log filter.
func RegistryAddresses(chainID uint64) []common.Address {
	out := make([]common.Address, 0, len(lockerRegistry))
	for key := range lockerRegistry {
		if key.ChainID == chainID {
			out = append(out, key.Address)
		}
	}
	for key := range nftManagers {
		if key.ChainID == chainID {
			out = append(out, key.Address)
		}
	}
	return out
}

// KnownTopics returns every lock-event topic0 the classifier recognizes.
func KnownTopics() []common.Hash {
	return []common.Hash{
		TopicTeamFinanceDeposit,
		TopicTeamFinanceDepositNFT,
		TopicUNCXOnDeposit,
		TopicUNCXOnLock,
		TopicGoPlusTokenLocked,
		TopicGoPlusLockCreated,
		TopicERC721Transfer,
	}
}

// TopicMapFromABI derives topic-hash -> event-name from ABI entries supplied
// alongside a batch, hashing name(type1,type2,...).
func TopicMapFromABI(entries []model.ABIEntry) map[common.Hash]string {
	out := make(map[common.Hash]string, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		sig := name + "(" + strings.Join(entry.Inputs, ",") + ")"
		out[crypto.Keccak256Hash([]byte(sig))] = name
	}
	return out
}

func lookupLocker(chainID uint64, address common.Address) (model.LockClassification, bool) {
	cls, ok := lockerRegistry[registryKey{ChainID: chainID, Address: address}]
	return cls, ok
}

func isNFTManager(chainID uint64, address common.Address) bool {
	_, ok := nftManagers[registryKey{ChainID: chainID, Address: address}]
	return ok
}
