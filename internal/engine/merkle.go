package engine

import (
	"org-governance/internal/hashing"
	"org-governance/internal/orgfamily"
	"strconv"
)

// VoteLeafHash derives the evidence-tree leaf for one (voter, support)
// pair; clients build their proofs over the same derivation
func VoteLeafHash(voter string, support bool) string {
	return hashing.CalculateFromStr(voter + "|" + strconv.FormatBool(support))
}

// verifyInclusion folds the proof path from the leaf up and compares
// the result against the committed root
func verifyInclusion(root string, leaf string, proof []orgfamily.ProofNode) bool {
	node := leaf
	for _, step := range proof {
		if step.Left {
			node = hashing.CalculateFromStr(step.Hash + node)
		} else {
			node = hashing.CalculateFromStr(node + step.Hash)
		}
	}
	return node == root
}
