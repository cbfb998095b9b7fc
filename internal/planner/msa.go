package planner

import (
	"github.com/google/uuid"

	"github.com/sourceplane/foldplan/internal/model"
	"github.com/sourceplane/foldplan/internal/normalize"
)

// msaNamespace scopes name-based MSA keys to this tool
var msaNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/sourceplane/foldplan/msa"))

// MSAKey fingerprints a residue string for alignment deduplication.
// Case and whitespace do not affect the key.
func MSAKey(residues string) string {
	return uuid.NewSHA1(msaNamespace, []byte(normalize.Residues(residues))).String()
}

// MSARef identifies the chain that owns an alignment search
type MSARef struct {
	JobIndex int
	JobID    string
	ChainID  string
}

func (r MSARef) String() string {
	return r.JobID + "/" + r.ChainID
}

// MSATable is the per-run, append-only record of alignment owners.
// It is built during planning, before any dispatch, and is never shared across runs.
type MSATable struct {
	reuse  bool
	owners map[string]MSARef
}

// NewMSATable creates an empty table; reuse controls whether repeats reference the owner
func NewMSATable(reuse bool) *MSATable {
	return &MSATable{
		reuse:  reuse,
		owners: make(map[string]MSARef),
	}
}

// Register records a chain. The first occurrence of a key becomes its owner;
// with reuse enabled later occurrences point back at it and the owner is returned.
func (t *MSATable) Register(jobIndex int, jobID string, chain model.Chain) (model.ChainMSA, *MSARef) {
	key := MSAKey(chain.Residues)
	entry := model.ChainMSA{ChainID: chain.ID, Key: key}

	owner, seen := t.owners[key]
	if !seen {
		t.owners[key] = MSARef{JobIndex: jobIndex, JobID: jobID, ChainID: chain.ID}
		return entry, nil
	}
	if !t.reuse {
		return entry, nil
	}

	entry.ReusedFrom = owner.String()
	return entry, &owner
}

// Len returns the number of distinct keys
func (t *MSATable) Len() int {
	return len(t.owners)
}
