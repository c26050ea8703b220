package validator

import (
	"fmt"
	"strings"

	"github.com/illarion/pwcrypt/internal/crypto"
	"go.uber.org/zap"
)

// Validator parameter names
const (
	ParamEncryptionKey = "encryptionKey"
	ParamAlgorithm     = "algorithm"
)

// PasswordGroup is what a validation host provides for one password field
type PasswordGroup interface {
	// FieldContents returns the value of the index-th input of the group
	FieldContents(index int) string
	// ValidatorParams returns the parameters configured for the validator, or nil
	ValidatorParams() map[string]string
	// SetModifiedPassword replaces the value the host will store for the field
	SetModifiedPassword(password string) error
}

// EmptyPolicy decides how a present but empty encryptionKey or algorithm is treated
type EmptyPolicy int

const (
	// EmptyAsAbsent treats an empty value like a missing one: pass, no change
	EmptyAsAbsent EmptyPolicy = iota
	// EmptyAsInvalid fails validation
	EmptyAsInvalid
	// EmptyAsPresent uses the empty value as given: an empty passphrase seeds
	// the key generator with no bytes, an empty algorithm fails to initialize
	EmptyAsPresent
)

func (p EmptyPolicy) String() string {
	switch p {
	case EmptyAsAbsent:
		return "absent"
	case EmptyAsInvalid:
		return "invalid"
	case EmptyAsPresent:
		return "attempt"
	default:
		return fmt.Sprintf("EmptyPolicy(%d)", int(p))
	}
}

// ParseEmptyPolicy parses "absent", "invalid" or "attempt"
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "absent":
		return EmptyAsAbsent, nil
	case "invalid":
		return EmptyAsInvalid, nil
	case "attempt":
		return EmptyAsPresent, nil
	default:
		return EmptyAsAbsent, fmt.Errorf("unknown empty policy %q", s)
	}
}

// Outcome is the result category of a single check
type Outcome int

const (
	OutcomeUnconfigured Outcome = iota // nothing to do, passes
	OutcomeEncrypted                   // ciphertext produced, passes
	OutcomeFailed                      // fails validation
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnconfigured:
		return "unconfigured"
	case OutcomeEncrypted:
		return "encrypted"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes what Check decided for one value
type Result struct {
	Outcome    Outcome
	Ciphertext string // set for OutcomeEncrypted
	Err        error  // reason for OutcomeFailed, or why nothing was done
}

// OK reports whether the field passes validation
func (r Result) OK() bool {
	return r.Outcome != OutcomeFailed
}

// Validator encrypts password fields. It keeps no per-call state and is
// safe for concurrent use.
type Validator struct {
	policy     EmptyPolicy
	derivation crypto.KeyDerivation
	logger     *zap.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithEmptyPolicy sets how empty parameters are handled
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(v *Validator) {
		v.policy = p
	}
}

// WithDerivation replaces the default seeded key derivation
func WithDerivation(kd crypto.KeyDerivation) Option {
	return func(v *Validator) {
		if kd != nil {
			v.derivation = kd
		}
	}
}

// WithLogger sets the logger failures are reported to
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a validator. Defaults: EmptyAsAbsent, SeededDerivation, no logging.
func New(opts ...Option) *Validator {
	v := &Validator{
		policy:     EmptyAsAbsent,
		derivation: crypto.SeededDerivation{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate encrypts the group's first field and hands the ciphertext back to
// the host. It returns false on any failure and never panics.
func (v *Validator) Validate(group PasswordGroup) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("Password encryption failed", zap.Any("panic", r))
			ok = false
		}
	}()

	res := v.Check(group.FieldContents(0), group.ValidatorParams())
	if res.Outcome != OutcomeEncrypted {
		return res.OK()
	}

	if err := group.SetModifiedPassword(res.Ciphertext); err != nil {
		v.logger.Warn("Password encryption failed",
			zap.Error(fmt.Errorf("%w: %w", ErrHostContract, err)))
		return false
	}
	return true
}

// Check decides the outcome for value without touching any host state
func (v *Validator) Check(value string, params map[string]string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Outcome: OutcomeFailed, Err: fmt.Errorf("unexpected failure: %v", r)}
			v.logger.Warn("Password encryption failed", zap.Error(res.Err))
		}
	}()

	key, hasKey := params[ParamEncryptionKey]
	algorithm, hasAlgorithm := params[ParamAlgorithm]
	if !hasKey || !hasAlgorithm {
		v.logger.Debug("Password encryption not configured",
			zap.Bool("hasKey", hasKey), zap.Bool("hasAlgorithm", hasAlgorithm))
		return Result{Outcome: OutcomeUnconfigured, Err: ErrConfigurationAbsent}
	}

	if (key == "" || algorithm == "") && v.policy != EmptyAsPresent {
		if v.policy == EmptyAsAbsent {
			v.logger.Debug("Password encryption parameters empty, skipping")
			return Result{Outcome: OutcomeUnconfigured, Err: ErrEmptyConfiguration}
		}
		v.logger.Warn("Password encryption failed", zap.Error(ErrEmptyConfiguration))
		return Result{Outcome: OutcomeFailed, Err: ErrEmptyConfiguration}
	}

	ctx, err := crypto.Initialize(key, algorithm, v.derivation)
	if err != nil {
		v.logger.Warn("Error initializing password encryption",
			zap.String("algorithm", algorithm), zap.Error(err))
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	defer ctx.Destroy()

	encrypted, err := ctx.Encrypt(value)
	if err != nil {
		v.logger.Warn("Error encrypting string",
			zap.String("algorithm", algorithm), zap.Error(err))
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	return Result{Outcome: OutcomeEncrypted, Ciphertext: encrypted}
}
