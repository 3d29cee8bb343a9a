package engine

import (
	"errors"
	"org-governance/internal/orgfamily"

	"github.com/fxamacker/cbor"
)

// Attribute is one key/value pair attached to an emitted event
type Attribute struct {
	Key   string
	Value string
}

// State is the slice of the transaction context the engine needs. The
// processor adapts the validator context to it; tests plug in a map.
// All writes of one Apply call land atomically or not at all.
type State interface {
	GetState(addresses []string) (map[string][]byte, error)
	SetState(pairs map[string][]byte) ([]string, error)
	DeleteState(addresses []string) ([]string, error)
	AddEvent(eventType string, attributes []Attribute, data []byte) error
}

func getRecord(st State, address string, out interface{}) (found bool, err error) {
	entries, err := st.GetState([]string{address})
	if err != nil {
		return false, errors.New("state read failed: " + err.Error())
	}

	data, ok := entries[address]
	if !ok || len(data) == 0 {
		return false, nil
	}

	if err := cbor.Unmarshal(data, out); err != nil {
		return false, errors.New("state record corrupted: " + err.Error())
	}
	return true, nil
}

func setRecord(st State, address string, record interface{}) error {
	data, err := cbor.Marshal(record, cbor.CanonicalEncOptions())
	if err != nil {
		return errors.New("failed to dump the state record: " + err.Error())
	}

	if _, err := st.SetState(map[string][]byte{address: data}); err != nil {
		return errors.New("state write failed: " + err.Error())
	}
	return nil
}

func loadMember(st State, identity string) (m orgfamily.MemberData, found bool, err error) {
	found, err = getRecord(st, orgfamily.GetMemberAddress(identity), &m)
	return
}

func saveMember(st State, m orgfamily.MemberData) error {
	return setRecord(st, orgfamily.GetMemberAddress(m.Identity), m)
}

func loadProposal(st State, id uint64) (p orgfamily.ProposalData, found bool, err error) {
	found, err = getRecord(st, orgfamily.GetProposalAddress(id), &p)
	return
}

func saveProposal(st State, p orgfamily.ProposalData) error {
	return setRecord(st, orgfamily.GetProposalAddress(p.ID), p)
}

func loadDeal(st State, id uint64) (d orgfamily.DealData, found bool, err error) {
	found, err = getRecord(st, orgfamily.GetDealAddress(id), &d)
	return
}

func saveDeal(st State, d orgfamily.DealData) error {
	return setRecord(st, orgfamily.GetDealAddress(d.ID), d)
}

func loadCommitments(st State, identity string) (c orgfamily.CommitmentIndexData, err error) {
	found, err := getRecord(st, orgfamily.GetCommitmentAddress(identity), &c)
	if err != nil {
		return orgfamily.CommitmentIndexData{}, err
	}
	if !found {
		c = orgfamily.CommitmentIndexData{Identity: identity}
	}
	return c, nil
}

func saveCommitments(st State, c orgfamily.CommitmentIndexData) error {
	return setRecord(st, orgfamily.GetCommitmentAddress(c.Identity), c)
}

func loadRoster(st State) (r orgfamily.RosterData, err error) {
	found, err := getRecord(st, orgfamily.GetRosterAddress(), &r)
	if err != nil {
		return orgfamily.RosterData{}, err
	}
	if !found {
		r = orgfamily.RosterData{Slots: map[string]int{}}
	}
	if r.Slots == nil {
		r.Slots = map[string]int{}
	}
	return r, nil
}

func saveRoster(st State, r orgfamily.RosterData) error {
	return setRecord(st, orgfamily.GetRosterAddress(), r)
}

func loadSettings(st State) (s orgfamily.SettingsData, err error) {
	found, err := getRecord(st, orgfamily.GetSettingsAddress(), &s)
	if err != nil {
		return orgfamily.SettingsData{}, err
	}
	if !found {
		s = orgfamily.SettingsData{Verified: map[string]bool{}}
	}
	if s.Verified == nil {
		s.Verified = map[string]bool{}
	}
	return s, nil
}

func saveSettings(st State, s orgfamily.SettingsData) error {
	return setRecord(st, orgfamily.GetSettingsAddress(), s)
}

// rosterAppend registers an identity in the active-member roster
func rosterAppend(r *orgfamily.RosterData, identity string) {
	if _, ok := r.Slots[identity]; ok {
		return
	}
	r.Slots[identity] = len(r.Members)
	r.Members = append(r.Members, identity)
}

// rosterRemove swaps the removed identity with the last roster entry,
// the roster is an unordered set so the order change is harmless
func rosterRemove(r *orgfamily.RosterData, identity string) {
	slot, ok := r.Slots[identity]
	if !ok {
		return
	}
	last := len(r.Members) - 1
	moved := r.Members[last]
	r.Members[slot] = moved
	r.Slots[moved] = slot
	r.Members = r.Members[:last]
	delete(r.Slots, identity)
}
