// Package tablespec derives the Hive DDL clauses for the managed tables of an
// ingest feed.
//
// Every feed owns up to five tables, one per Role. A Role carries a fixed
// Policy that decides the table suffix, the partitioning scheme, the storage
// format, whether column types are widened to string, and whether the
// rejection-reason column is appended. Each derivation is a pure function of
// the role and its inputs; callers assemble the clauses into a statement.
package tablespec

import (
	"fmt"
	"strings"
)

// Role identifies how a table is used in the ingest pipeline.
type Role uint8

// The zero Role is not a valid role.
const (
	Feed Role = iota + 1
	Valid
	Invalid
	Master
	Profile
)

// Policy is the set of flags a Role contributes to DDL derivation.
type Policy struct {
	// Suffix is appended to the entity name as "_<suffix>". Empty for Master.
	Suffix string
	// UsesPipelineTimePartition partitions the table solely by processing_dttm.
	UsesPipelineTimePartition bool
	// UseTargetStorageFormat selects the target format and table properties.
	UseTargetStorageFormat bool
	// WidenToText declares every column as string.
	WidenToText bool
	// AppendRejectionReason adds the dlp_reject_reason column.
	AppendRejectionReason bool
}

// Roles returns every role in pipeline order.
func Roles() []Role {
	return []Role{Feed, Valid, Invalid, Master, Profile}
}

// Policy returns the role's policy flags. It panics on a Role outside the
// declared constants.
func (r Role) Policy() Policy {
	switch r {
	case Feed:
		return Policy{Suffix: "feed", UsesPipelineTimePartition: true}
	case Valid:
		return Policy{Suffix: "valid", UsesPipelineTimePartition: true, UseTargetStorageFormat: true}
	case Invalid:
		return Policy{
			Suffix:                    "invalid",
			UsesPipelineTimePartition: true,
			UseTargetStorageFormat:    true,
			WidenToText:               true,
			AppendRejectionReason:     true,
		}
	case Master:
		return Policy{UseTargetStorageFormat: true}
	case Profile:
		return Policy{Suffix: "profile", UsesPipelineTimePartition: true, UseTargetStorageFormat: true, WidenToText: true}
	default:
		panic(fmt.Sprintf("tablespec: unknown role %d", uint8(r)))
	}
}

// String returns the lower-case role token.
func (r Role) String() string {
	switch r {
	case Feed:
		return "feed"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Master:
		return "master"
	case Profile:
		return "profile"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// ParseRole converts a role token (case-insensitive) to a Role.
func ParseRole(s string) (Role, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Roles() {
		if r.String() == token {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown table role %q", s)
}
