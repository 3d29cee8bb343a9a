package orgfamily_test

import (
	"org-governance/internal/hashing"
	"org-governance/internal/orgfamily"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetMemberAddress(t *testing.T) {
	hashing.Initialize(zap.NewNop())

	addr := orgfamily.GetMemberAddress("02a0b1c2d3")
	assert.Equal(t, len(addr), 70)
	t.Log(addr)
}

func TestAddressesAreStable(t *testing.T) {
	hashing.Initialize(zap.NewNop())

	assert.Equal(t, orgfamily.GetMemberAddress("abc"), orgfamily.GetMemberAddress("abc"))
	assert.Equal(t, orgfamily.GetProposalAddress(7), orgfamily.GetProposalAddress(7))
	assert.NotEqual(t, orgfamily.GetProposalAddress(7), orgfamily.GetProposalAddress(8))
	assert.NotEqual(t, orgfamily.GetMemberAddress("abc"), orgfamily.GetCommitmentAddress("abc"))
}

func TestAllAddressesShareNamespace(t *testing.T) {
	hashing.Initialize(zap.NewNop())

	ns := orgfamily.Namespace()
	assert.Equal(t, 6, len(ns))

	for _, addr := range []string{
		orgfamily.GetMemberAddress("x"),
		orgfamily.GetProposalAddress(1),
		orgfamily.GetDealAddress(1),
		orgfamily.GetCommitmentAddress("x"),
		orgfamily.GetRosterAddress(),
		orgfamily.GetSettingsAddress(),
	} {
		assert.Equal(t, 70, len(addr))
		assert.Equal(t, ns, addr[0:6])
	}
}
