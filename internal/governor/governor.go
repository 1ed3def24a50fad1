package governor

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// Params holds the static governance parameters of a DAO, resolved from
// configuration when the registry is built.
type Params struct {
	Quorum            *big.Int
	ProposalThreshold *big.Int
	VotingDelay       uint64
	VotingPeriod      uint64
	TimelockDelay     uint64
}

// Governor normalizes one governance contract family's event shapes into the
// canonical event set and exposes the DAO's governance parameters.
//
//go:generate mockgen -source=governor.go -destination=../mocks/governor.go -package=mocks -mock_names=Governor=MockGovernor
type Governor interface {
	// Family returns the contract family implemented by this governor
	Family() domain.GovernorFamily

	// NormalizeEvent maps a decoded envelope to a canonical event.
	// Unknown event names or missing/mistyped arguments fail with
	// domain.ErrMalformedEvent; no partial canonical record is ever produced.
	NormalizeEvent(env *domain.EventEnvelope) (domain.CanonicalEvent, error)

	// AllowsVoteChange reports whether a voter may replace an earlier vote
	// on the same proposal
	AllowsVoteChange() bool

	GetQuorum() *big.Int
	GetVotingDelay() uint64
	GetVotingPeriod() uint64
	GetProposalThreshold() *big.Int
	GetTimelockDelay() uint64
}

// Registry maps DAO ids to their governor implementation. Built once at
// startup; per-event lookups never reflect.
type Registry struct {
	governors map[domain.DaoID]Governor
}

// NewRegistry creates a registry from a fixed DAO → governor mapping
func NewRegistry(governors map[domain.DaoID]Governor) *Registry {
	return &Registry{governors: governors}
}

// Lookup returns the governor for a DAO
func (r *Registry) Lookup(daoID domain.DaoID) (Governor, error) {
	g, ok := r.governors[daoID]
	if !ok {
		return nil, fmt.Errorf("%w: dao %s", domain.ErrUnknownGovernor, daoID)
	}
	return g, nil
}

// DaoIDs returns the registered DAO ids
func (r *Registry) DaoIDs() []domain.DaoID {
	ids := make([]domain.DaoID, 0, len(r.governors))
	for id := range r.governors {
		ids = append(ids, id)
	}
	return ids
}

// New creates a governor for the given family and parameters
func New(family domain.GovernorFamily, params Params) (Governor, error) {
	switch family {
	case domain.GovernorFamilyStandard:
		return &StandardGovernor{params: params}, nil
	case domain.GovernorFamilyNouns:
		return &NounsGovernor{params: params}, nil
	case domain.GovernorFamilyAzorius:
		return &AzoriusGovernor{params: params}, nil
	case domain.GovernorFamilyOffchain:
		return &OffchainGovernor{params: params}, nil
	default:
		return nil, fmt.Errorf("%w: family %s", domain.ErrUnknownGovernor, family)
	}
}

// eventArgs wraps decoded event arguments with typed, fail-loud accessors
type eventArgs map[string]interface{}

func decodeArgs(raw json.RawMessage) (eventArgs, error) {
	var args eventArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("%w: undecodable args: %v", domain.ErrMalformedEvent, err)
	}
	return args, nil
}

// str returns the first present key as a string
func (a eventArgs) str(keys ...string) (string, error) {
	for _, key := range keys {
		v, ok := a[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%w: field %s is not a string", domain.ErrMalformedEvent, key)
		}
		return s, nil
	}
	return "", fmt.Errorf("%w: missing field %s", domain.ErrMalformedEvent, keys[0])
}

// optStr returns the first present key as a string, or empty when absent
func (a eventArgs) optStr(keys ...string) string {
	for _, key := range keys {
		if s, ok := a[key].(string); ok {
			return s
		}
	}
	return ""
}

// address returns the first present key as a normalized address
func (a eventArgs) address(keys ...string) (domain.Address, error) {
	s, err := a.str(keys...)
	if err != nil {
		return "", err
	}
	addr := domain.NormalizeAddress(s)
	if !addr.Valid() {
		return "", fmt.Errorf("%w: field %s is not an address: %q", domain.ErrMalformedEvent, keys[0], s)
	}
	return addr, nil
}

// bigInt returns the first present key as an arbitrary-precision integer.
// Accepts decimal strings (the usual ABI decoding for uint256) and JSON numbers.
func (a eventArgs) bigInt(keys ...string) (*big.Int, error) {
	for _, key := range keys {
		v, ok := a[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case string:
			val, ok := new(big.Int).SetString(n, 10)
			if !ok {
				return nil, fmt.Errorf("%w: field %s is not a decimal integer: %q", domain.ErrMalformedEvent, key, n)
			}
			return val, nil
		case float64:
			if n != float64(int64(n)) {
				return nil, fmt.Errorf("%w: field %s is not an integer: %v", domain.ErrMalformedEvent, key, n)
			}
			return big.NewInt(int64(n)), nil
		default:
			return nil, fmt.Errorf("%w: field %s has unexpected type %T", domain.ErrMalformedEvent, key, v)
		}
	}
	return nil, fmt.Errorf("%w: missing field %s", domain.ErrMalformedEvent, keys[0])
}

// uint64Arg returns the first present key as a uint64 block number
func (a eventArgs) uint64Arg(keys ...string) (uint64, error) {
	v, err := a.bigInt(keys...)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: field %s out of uint64 range", domain.ErrMalformedEvent, keys[0])
	}
	return v.Uint64(), nil
}

// strSlice returns the first present key as a string slice
func (a eventArgs) strSlice(keys ...string) ([]string, error) {
	for _, key := range keys {
		v, ok := a[key]
		if !ok {
			continue
		}
		items, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: field %s is not an array", domain.ErrMalformedEvent, key)
		}
		out := make([]string, len(items))
		for i, item := range items {
			switch s := item.(type) {
			case string:
				out[i] = s
			case float64:
				out[i] = strconv.FormatInt(int64(s), 10)
			default:
				return nil, fmt.Errorf("%w: field %s[%d] has unexpected type %T", domain.ErrMalformedEvent, key, i, item)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: missing field %s", domain.ErrMalformedEvent, keys[0])
}

// unknownEvent is the shared rejection for unmapped event names
func unknownEvent(family domain.GovernorFamily, name string) error {
	return fmt.Errorf("%w: %s governor has no mapping for event %q", domain.ErrMalformedEvent, family, name)
}

// normalizeTransfer maps the ERC20Votes Transfer shape shared by the on-chain families
func normalizeTransfer(env *domain.EventEnvelope, args eventArgs) (*domain.TokenTransfer, error) {
	from, err := args.address("from")
	if err != nil {
		return nil, err
	}
	to, err := args.address("to")
	if err != nil {
		return nil, err
	}
	amount, err := args.bigInt("value", "amount")
	if err != nil {
		return nil, err
	}
	return &domain.TokenTransfer{
		EventRef: env.Ref(),
		DaoID:    env.DaoID,
		TokenID:  domain.NormalizeAddress(env.Log.Address),
		From:     from,
		To:       to,
		Amount:   amount,
	}, nil
}

// normalizeDelegateChanged maps the ERC20Votes DelegateChanged shape
func normalizeDelegateChanged(env *domain.EventEnvelope, args eventArgs) (*domain.DelegateChanged, error) {
	delegator, err := args.address("delegator")
	if err != nil {
		return nil, err
	}
	fromDelegate, err := args.address("fromDelegate")
	if err != nil {
		return nil, err
	}
	toDelegate, err := args.address("toDelegate")
	if err != nil {
		return nil, err
	}
	// Delegated value is carried by delegation-aware tokens only; absent means
	// the ledger resolves it from the delegator's balance at apply time.
	value := new(big.Int)
	if _, ok := args["delegatedValue"]; ok {
		value, err = args.bigInt("delegatedValue")
		if err != nil {
			return nil, err
		}
	}
	return &domain.DelegateChanged{
		EventRef:       env.Ref(),
		DaoID:          env.DaoID,
		Delegator:      delegator,
		FromDelegate:   fromDelegate,
		ToDelegate:     toDelegate,
		DelegatedValue: value,
	}, nil
}

// normalizeDelegateVotesChanged maps the ERC20Votes DelegateVotesChanged shape.
// OpenZeppelin emits previousBalance/newBalance up to v4 and
// previousVotes/newVotes from v5; both are accepted.
func normalizeDelegateVotesChanged(env *domain.EventEnvelope, args eventArgs) (*domain.DelegateVotesChanged, error) {
	delegate, err := args.address("delegate")
	if err != nil {
		return nil, err
	}
	previous, err := args.bigInt("previousVotes", "previousBalance")
	if err != nil {
		return nil, err
	}
	newVotes, err := args.bigInt("newVotes", "newBalance")
	if err != nil {
		return nil, err
	}
	return &domain.DelegateVotesChanged{
		EventRef: env.Ref(),
		DaoID:    env.DaoID,
		Delegate: delegate,
		Previous: previous,
		New:      newVotes,
	}, nil
}

// statusChanged builds a canonical lifecycle event for a terminal/intermediate status
func statusChanged(env *domain.EventEnvelope, args eventArgs, status domain.ProposalStatus, idKeys ...string) (*domain.ProposalStatusChanged, error) {
	id, err := args.bigInt(idKeys...)
	if err != nil {
		return nil, err
	}
	return &domain.ProposalStatusChanged{
		EventRef:   env.Ref(),
		DaoID:      env.DaoID,
		ProposalID: id.String(),
		Status:     status,
	}, nil
}
