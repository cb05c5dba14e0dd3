package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rentalhub/internal/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyKind is the family a policy document belongs to.
type PolicyKind string

const (
	PolicyKindTerms      PolicyKind = "terms"
	PolicyKindPrivacy    PolicyKind = "privacy"
	PolicyKindServiceFee PolicyKind = "service_fee"
)

// PolicyScope identifies the set of documents that share one active slot.
// Terms and service fee are singletons; privacy is scoped per privacy type.
type PolicyScope string

const (
	ScopeTerms      PolicyScope = "terms"
	ScopeServiceFee PolicyScope = "service-fee"

	privacyScopePrefix = "privacy:"
)

// ErrInvalidPolicyScope is returned for scope strings that name no known scope.
var ErrInvalidPolicyScope = errors.New("invalid policy scope")

// PrivacyScope returns the scope of privacy documents for one privacy type.
func PrivacyScope(privacyTypeID uuid.UUID) PolicyScope {
	return PolicyScope(privacyScopePrefix + privacyTypeID.String())
}

// ParsePolicyScope validates a scope string.
func ParsePolicyScope(s string) (PolicyScope, error) {
	scope := PolicyScope(strings.TrimSpace(s))
	switch {
	case scope == ScopeTerms, scope == ScopeServiceFee:
		return scope, nil
	case strings.HasPrefix(string(scope), privacyScopePrefix):
		if _, err := uuid.Parse(strings.TrimPrefix(string(scope), privacyScopePrefix)); err != nil {
			return "", errors.Wrapf(ErrInvalidPolicyScope, "%q", s)
		}

		return scope, nil
	default:
		return "", errors.Wrapf(ErrInvalidPolicyScope, "%q", s)
	}
}

// Kind returns the policy kind stored under this scope.
func (s PolicyScope) Kind() PolicyKind {
	switch {
	case s == ScopeServiceFee:
		return PolicyKindServiceFee
	case strings.HasPrefix(string(s), privacyScopePrefix):
		return PolicyKindPrivacy
	default:
		return PolicyKindTerms
	}
}

// PrivacyTypeID extracts the privacy type of a privacy scope.
func (s PolicyScope) PrivacyTypeID() (uuid.UUID, bool) {
	if !strings.HasPrefix(string(s), privacyScopePrefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(string(s), privacyScopePrefix))
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

func (s PolicyScope) String() string {
	return string(s)
}

// PolicyVersion counts tenths: 10 is v1.0, 11 is v1.1, 20 is v2.0.
// Integer storage keeps the +0.1 step exact.
type PolicyVersion int

// InitialPolicyVersion is the version of every newly created document.
const InitialPolicyVersion PolicyVersion = 10

// ErrInvalidPolicyVersion is returned when a version string cannot be parsed.
var ErrInvalidPolicyVersion = errors.New("invalid policy version")

// Next returns the version one tenth above v.
func (v PolicyVersion) Next() PolicyVersion {
	return v + 1
}

// String renders the version as vMAJOR.MINOR.
func (v PolicyVersion) String() string {
	return fmt.Sprintf("v%d.%d", int(v)/10, int(v)%10)
}

// ParsePolicyVersion reads "v1.2" or "1.2".
func ParsePolicyVersion(s string) (PolicyVersion, error) {
	major, minor, ok := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), ".")
	if !ok {
		return 0, errors.Wrapf(ErrInvalidPolicyVersion, "%q", s)
	}
	ma, err := strconv.Atoi(major)
	if err != nil || ma < 0 {
		return 0, errors.Wrapf(ErrInvalidPolicyVersion, "%q", s)
	}
	mi, err := strconv.Atoi(minor)
	if err != nil || mi < 0 || mi > 9 {
		return 0, errors.Wrapf(ErrInvalidPolicyVersion, "%q", s)
	}

	return PolicyVersion(ma*10 + mi), nil
}

// MarshalJSON encodes the version as its display string.
func (v PolicyVersion) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a display string such as "v1.0".
func (v *PolicyVersion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(ErrInvalidPolicyVersion, err.Error())
	}
	parsed, err := ParsePolicyVersion(s)
	if err != nil {
		return err
	}
	*v = parsed

	return nil
}

// VersionedPolicy is one version of a policy document.
type VersionedPolicy struct {
	ID             uuid.UUID       `json:"id"`                        // The Global Unique Identifier (GUID) for the document version.
	Kind           PolicyKind      `json:"kind"`                      // Family of the document.
	ScopeID        PolicyScope     `json:"scope_id"`                  // Active slot this document competes for.
	Version        PolicyVersion   `json:"version"`                   // Display version, v1.0 upward.
	EffectiveFrom  time.Time       `json:"effective_from"`            // When the document starts to apply.
	EffectiveTo    *time.Time      `json:"effective_to,omitempty"`    // Optional end of applicability.
	IsActive       bool            `json:"is_active"`                 // At most one document per scope is active.
	Payload        json.RawMessage `json:"payload"`                   // Document body; shape depends on Kind.
	ChangesSummary string          `json:"changes_summary,omitempty"` // What changed against the previous version.
	CreatedBy      uuid.UUID       `json:"created_by"`                // Staff member who authored this version.
	ActivatedAt    *time.Time      `json:"activated_at,omitempty"`    // Last time this version became active.
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PolicySource tags where an active policy value came from.
type PolicySource string

const (
	// PolicySourceExplicit means a stored document is active for the scope.
	PolicySourceExplicit PolicySource = "explicit"
	// PolicySourceFallback means no document is active and the configured default applies.
	PolicySourceFallback PolicySource = "fallback"
	// PolicySourceNone means no document is active and the scope has no default.
	PolicySourceNone PolicySource = "none"
)

// ActivePolicy is the result of looking up the active document of a scope.
type ActivePolicy struct {
	Policy *VersionedPolicy `json:"policy,omitempty"`
	Source PolicySource     `json:"source"`
}

// DocumentSection is one heading of a terms or privacy document.
type DocumentSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// DocumentPayload is the body of terms and privacy documents.
type DocumentPayload struct {
	Title    string            `json:"title"`
	Sections []DocumentSection `json:"sections"`
}

// ServiceFeePayload is the body of a service-fee document.
type ServiceFeePayload struct {
	RatePercent decimal.Decimal `json:"ratePercent"`
}

// ErrInvalidPolicyPayload is returned when a payload does not fit its kind.
var ErrInvalidPolicyPayload = errors.New("invalid policy payload")

// ValidatePolicyPayload checks the payload shape for a kind.
func ValidatePolicyPayload(kind PolicyKind, payload json.RawMessage) error {
	switch kind {
	case PolicyKindServiceFee:
		_, err := DecodeServiceFeePayload(payload)

		return err
	case PolicyKindTerms, PolicyKindPrivacy:
		var doc DocumentPayload
		if err := json.Unmarshal(payload, &doc); err != nil {
			return errors.Wrap(ErrInvalidPolicyPayload, err.Error())
		}
		if strings.TrimSpace(doc.Title) == "" {
			return errors.Wrap(ErrInvalidPolicyPayload, "title is required")
		}

		return nil
	default:
		return errors.Wrapf(ErrInvalidPolicyPayload, "unknown kind %q", kind)
	}
}

// DecodeServiceFeePayload parses and checks a service-fee payload.
func DecodeServiceFeePayload(payload json.RawMessage) (ServiceFeePayload, error) {
	var fee struct {
		RatePercent *decimal.Decimal `json:"ratePercent"`
	}
	if err := json.Unmarshal(payload, &fee); err != nil {
		return ServiceFeePayload{}, errors.Wrap(ErrInvalidPolicyPayload, err.Error())
	}
	if fee.RatePercent == nil {
		return ServiceFeePayload{}, errors.Wrap(ErrInvalidPolicyPayload, "ratePercent is required")
	}
	if fee.RatePercent.IsNegative() || fee.RatePercent.GreaterThan(decimal.NewFromInt(100)) {
		return ServiceFeePayload{}, errors.Wrap(ErrInvalidPolicyPayload, "ratePercent must be between 0 and 100")
	}

	return ServiceFeePayload{RatePercent: *fee.RatePercent}, nil
}

// ServiceFeeRate is the rate in force at a point in time together with its provenance.
// It is copied onto every order at checkout.
type ServiceFeeRate struct {
	RatePercent decimal.Decimal `json:"rate_percent"`
	Source      PolicySource    `json:"source"`
	PolicyID    *uuid.UUID      `json:"policy_id,omitempty"`
	Version     *PolicyVersion  `json:"version,omitempty"`
}
