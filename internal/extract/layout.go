package extract

import "github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"

// FieldKind names what a layout word holds.
type FieldKind int

const (
	// FieldToken reads an address from the lower 20 bytes of a data word.
	FieldToken FieldKind = iota
	// FieldPairedToken reads the second pool token the same way.
	FieldPairedToken
	// FieldTokenTopic reads an address from a topic slot instead of data.
	FieldTokenTopic
	// FieldAmount reads an unsigned 256-bit amount word.
	FieldAmount
	// FieldUnlockTime reads a unix timestamp word.
	FieldUnlockTime
	// FieldTokenID reads an NFT token ID word.
	FieldTokenID
	// FieldTokenIDTopic reads an NFT token ID from a topic slot.
	FieldTokenIDTopic
	// FieldNFTManager reads the position-manager address from a data word.
	FieldNFTManager
)

// Field binds one 32-byte word (or topic slot) to a meaning.
type Field struct {
	Index int
	Kind  FieldKind
}

// Layout is the declarative decode table for one (platform, version) format.
// MinWords is the minimum data length in 32-byte words; shorter data fails
// closed. These legacy formats have no published ABI, so the word positions
// were recovered from observed transactions.
type Layout struct {
	MinWords int
	Fields   []Field

	// IsLP marks layouts whose locked token is known to be a pool token.
	IsLP bool
	// ProbeLP defers a pair-interface probe on the token contract; a hit
	// reclassifies the lock as an LP lock.
	ProbeLP bool
	// NFTLookup defers an on-chain positions(tokenId) lookup; the decode
	// yields only (manager, tokenId).
	NFTLookup bool
	// ManagerFromAddress uses the emitting contract as the NFT manager.
	ManagerFromAddress bool
}

type layoutKey struct {
	Platform model.Platform
	Version  string
}

var layouts = map[layoutKey]Layout{
	// Deposit(id, tokenAddress, withdrawalAddress, amount, unlockTime)
	{model.PlatformTeamFinance, "v2"}: {
		MinWords: 5,
		Fields: []Field{
			{Index: 1, Kind: FieldToken},
			{Index: 3, Kind: FieldAmount},
			{Index: 4, Kind: FieldUnlockTime},
		},
		ProbeLP: true,
	},
	// DepositNFT(id, nftManager, withdrawalAddress, tokenId, amount, unlockTime)
	{model.PlatformTeamFinance, "v3"}: {
		MinWords: 6,
		Fields: []Field{
			{Index: 1, Kind: FieldNFTManager},
			{Index: 3, Kind: FieldTokenID},
			{Index: 4, Kind: FieldAmount},
			{Index: 5, Kind: FieldUnlockTime},
		},
		NFTLookup: true,
	},
	// onDeposit(lpToken, user, amount, lockDate, unlockDate)
	{model.PlatformUNCX, "v2"}: {
		MinWords: 5,
		Fields: []Field{
			{Index: 0, Kind: FieldToken},
			{Index: 2, Kind: FieldAmount},
			{Index: 4, Kind: FieldUnlockTime},
		},
		IsLP: true,
	},
	// onLock(lockId, nftPositionManager, tokenId, owner, unlockDate)
	{model.PlatformUNCX, "v3"}: {
		MinWords: 5,
		Fields: []Field{
			{Index: 1, Kind: FieldNFTManager},
			{Index: 2, Kind: FieldTokenID},
			{Index: 4, Kind: FieldUnlockTime},
		},
		NFTLookup: true,
	},
	// Transfer(from, to, tokenId) mint on a position manager; all fields live
	// in topics and the manager is the emitting contract.
	{model.PlatformUNCX, "nft-mint"}: {
		MinWords: 0,
		Fields: []Field{
			{Index: 3, Kind: FieldTokenIDTopic},
		},
		NFTLookup:          true,
		ManagerFromAddress: true,
	},
	// TokenLocked(token indexed, amount, unlockTime)
	{model.PlatformGoPlus, "v1"}: {
		MinWords: 2,
		Fields: []Field{
			{Index: 1, Kind: FieldTokenTopic},
			{Index: 0, Kind: FieldAmount},
			{Index: 1, Kind: FieldUnlockTime},
		},
		ProbeLP: true,
	},
	// LockCreated(lockId, token, pairedToken, amount, unlockTime)
	{model.PlatformGoPlus, "v2"}: {
		MinWords: 5,
		Fields: []Field{
			{Index: 1, Kind: FieldToken},
			{Index: 2, Kind: FieldPairedToken},
			{Index: 3, Kind: FieldAmount},
			{Index: 4, Kind: FieldUnlockTime},
		},
		IsLP: true,
	},
	// The aggregator re-emits the Team Finance deposit layout.
	{model.PlatformAggregator, "v1"}: {
		MinWords: 5,
		Fields: []Field{
			{Index: 1, Kind: FieldToken},
			{Index: 3, Kind: FieldAmount},
			{Index: 4, Kind: FieldUnlockTime},
		},
		ProbeLP: true,
	},
}

// LayoutFor returns the decode table for a classification.
func LayoutFor(cls model.LockClassification) (Layout, bool) {
	layout, ok := layouts[layoutKey{Platform: cls.Platform, Version: cls.Version}]
	return layout, ok
}
