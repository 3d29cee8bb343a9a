package orgfamily

import (
	"org-governance/internal/hashing"
	"strconv"
	"sync"
)

var (
	familyHash         = ""
	memberPrefixHash   = ""
	proposalPrefixHash = ""
	dealPrefixHash     = ""
	commitPrefixHash   = ""
	rosterAddr         = ""
	settingsAddr       = ""

	calcOnce sync.Once
)

// hashing lib needs to be initialized first
func initHashVars() {
	calcOnce.Do(func() {
		familyHash = hashing.CalculateSHA512(FamilyName)
		memberPrefixHash = hashing.CalculateSHA512(memberPrefix)
		proposalPrefixHash = hashing.CalculateSHA512(proposalPrefix)
		dealPrefixHash = hashing.CalculateSHA512(dealPrefix)
		commitPrefixHash = hashing.CalculateSHA512(commitmentPrefix)

		rosterAddr = familyHash[0:6] + hashing.CalculateSHA512(rosterKey)[0:64]
		settingsAddr = familyHash[0:6] + hashing.CalculateSHA512(settingsKey)[0:64]
	})
}

// Namespace returns the 6-char prefix shared by every record of the family
func Namespace() string {
	initHashVars()
	return familyHash[0:6]
}

func GetMemberAddress(identity string) (address string) {
	initHashVars()

	identityHash := hashing.CalculateSHA512(identity)

	return familyHash[0:6] + memberPrefixHash[0:6] + identityHash[0:58]
}

func GetProposalAddress(proposalID uint64) (address string) {
	initHashVars()

	idHash := hashing.CalculateSHA512(strconv.FormatUint(proposalID, 10))

	return familyHash[0:6] + proposalPrefixHash[0:6] + idHash[0:58]
}

func GetDealAddress(dealID uint64) (address string) {
	initHashVars()

	idHash := hashing.CalculateSHA512(strconv.FormatUint(dealID, 10))

	return familyHash[0:6] + dealPrefixHash[0:6] + idHash[0:58]
}

func GetCommitmentAddress(identity string) (address string) {
	initHashVars()

	identityHash := hashing.CalculateSHA512(identity)

	return familyHash[0:6] + commitPrefixHash[0:6] + identityHash[0:58]
}

func GetRosterAddress() string {
	initHashVars()
	return rosterAddr
}

func GetSettingsAddress() string {
	initHashVars()
	return settingsAddr
}
