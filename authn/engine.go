package authn

import (
	"context"
	stderrors "errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/auth/oidc"
	"github.com/kbukum/authsvc/auth/password"
	"github.com/kbukum/authsvc/auth/session"
	"github.com/kbukum/authsvc/errors"
	"github.com/kbukum/authsvc/logger"
	"github.com/kbukum/authsvc/observability"
)

// IdentityVerifier turns a federated ID token into verified user info.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, rawIDToken string) (*oidc.UserInfo, error)
}

// Result is returned by the login flows.
type Result struct {
	Message string          `json:"-"`
	Token   string          `json:"token"`
	User    account.Profile `json:"user"`
}

// Engine runs the account flows. It holds no per-request state.
type Engine struct {
	store    account.Store
	hasher   password.Hasher
	codec    *session.Codec
	verifier IdentityVerifier
	log      *logger.Logger
	metrics  *observability.Metrics

	decoyOnce   sync.Once
	decoyDigest string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) { e.log = log.WithComponent("authn") }
}

// WithMetrics records auth attempts on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine wires the engine's collaborators.
func NewEngine(store account.Store, hasher password.Hasher, codec *session.Codec, verifier IdentityVerifier, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		hasher:   hasher,
		codec:    codec,
		verifier: verifier,
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register creates a LOCAL account and signs a token for it.
func (e *Engine) Register(ctx context.Context, in RegisterInput) (res *Result, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRegister)
	defer func() { e.finish(ctx, span, "register", err) }()

	if appErr := check(in, registerMessages); appErr != nil {
		return nil, appErr
	}
	role, _ := account.ParseRole(in.Role)

	switch _, findErr := e.store.FindByEmail(ctx, in.Email); {
	case findErr == nil:
		return nil, errors.Conflict(MsgEmailTaken)
	case !stderrors.Is(findErr, account.ErrNotFound):
		return nil, e.storeFailure(ctx, "find account by email", findErr)
	}

	digest, hashErr := e.hasher.Hash(in.Password)
	if stderrors.Is(hashErr, password.ErrPasswordTooLong) {
		return nil, errors.Validation(MsgPasswordTooLong).WithCause(hashErr)
	}
	if hashErr != nil {
		return nil, e.internal(ctx, "hash password", hashErr)
	}

	a := &account.Account{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: digest,
		Provider:     account.ProviderLocal,
		Role:         role,
	}
	if err := e.create(ctx, a); err != nil {
		return nil, err
	}
	e.log.WithContext(ctx).Info("Account registered", logger.Fields(
		logger.FieldUserID, a.ID,
		logger.FieldProvider, string(a.Provider),
		logger.FieldRole, string(a.Role),
	))
	return e.issue(ctx, span, a, MsgRegistered)
}

// Login authenticates a LOCAL account by email and password. Unknown email,
// missing digest and wrong password produce the same error.
func (e *Engine) Login(ctx context.Context, in LoginInput) (res *Result, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanLogin)
	defer func() { e.finish(ctx, span, "login", err) }()

	if appErr := check(in, loginMessages); appErr != nil {
		return nil, appErr
	}

	a, findErr := e.store.FindByEmail(ctx, in.Email)
	if stderrors.Is(findErr, account.ErrNotFound) {
		e.burnVerify(in.Password)
		return nil, errors.Unauthorized(MsgInvalidCredentials)
	}
	if findErr != nil {
		return nil, e.storeFailure(ctx, "find account by email", findErr)
	}

	if a.Provider == account.ProviderFederated {
		return nil, errors.Unauthorized(MsgUseFederatedLogin)
	}
	if !a.HasPassword() {
		e.burnVerify(in.Password)
		return nil, errors.Unauthorized(MsgInvalidCredentials)
	}

	ok, verifyErr := e.hasher.Verify(in.Password, a.PasswordHash)
	if verifyErr != nil {
		e.log.WithContext(ctx).Error("Stored password digest is unreadable", logger.Fields(
			logger.FieldUserID, a.ID,
			logger.FieldError, verifyErr.Error(),
		))
		return nil, errors.Unauthorized(MsgInvalidCredentials)
	}
	if !ok {
		return nil, errors.Unauthorized(MsgInvalidCredentials)
	}
	return e.issue(ctx, span, a, MsgLoggedIn)
}

// FederatedLogin verifies a Google ID token and signs a token for the
// matching FEDERATED account, creating it on first sight.
func (e *Engine) FederatedLogin(ctx context.Context, in FederatedInput) (res *Result, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanFederatedLogin)
	defer func() { e.finish(ctx, span, "federated_login", err) }()

	if appErr := check(in, federatedMessages); appErr != nil {
		return nil, appErr
	}

	info, verifyErr := e.verifier.VerifyIdentity(ctx, in.IDToken)
	if verifyErr != nil {
		e.log.WithContext(ctx).Warn("Federated token rejected", logger.Fields(logger.FieldError, verifyErr.Error()))
		return nil, errors.Unauthorized(MsgFederatedFailed).WithCause(verifyErr)
	}

	a, findErr := e.store.FindByEmail(ctx, info.Email)
	switch {
	case stderrors.Is(findErr, account.ErrNotFound):
		a = &account.Account{
			FullName: info.Name,
			Email:    info.Email,
			Provider: account.ProviderFederated,
			Role:     account.RoleUser,
		}
		if err := e.create(ctx, a); err != nil {
			return nil, err
		}
		e.log.WithContext(ctx).Info("Federated account created", logger.Fields(
			logger.FieldUserID, a.ID,
			logger.FieldProvider, string(a.Provider),
		))
	case findErr != nil:
		return nil, e.storeFailure(ctx, "find account by email", findErr)
	case a.Provider == account.ProviderLocal:
		return nil, errors.Conflict(MsgUsePasswordLogin)
	}
	return e.issue(ctx, span, a, MsgFederatedLoggedIn)
}

// GetByID returns the full account, including its password digest.
func (e *Engine) GetByID(ctx context.Context, id string) (a *account.Account, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanGetByID,
		trace.WithAttributes(attribute.String(observability.AttrUserID, id)))
	defer func() { e.finishSpan(span, err) }()

	a, err = e.store.FindByID(ctx, id)
	if stderrors.Is(err, account.ErrNotFound) {
		return nil, errors.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, e.storeFailure(ctx, "find account by id", err)
	}
	return a, nil
}

// create persists a; a duplicate-email race maps to the conflict error.
func (e *Engine) create(ctx context.Context, a *account.Account) *errors.AppError {
	err := e.store.Create(ctx, a)
	if stderrors.Is(err, account.ErrDuplicateEmail) {
		return errors.Conflict(MsgEmailTaken)
	}
	if err != nil {
		return e.storeFailure(ctx, "create account", err)
	}
	return nil
}

func (e *Engine) issue(ctx context.Context, span trace.Span, a *account.Account, message string) (*Result, error) {
	token, err := e.codec.Issue(session.ClaimsFor(a))
	if err != nil {
		return nil, e.internal(ctx, "issue session token", err)
	}
	span.SetAttributes(
		attribute.String(observability.AttrUserID, a.ID),
		attribute.String(observability.AttrProvider, string(a.Provider)),
		attribute.String(observability.AttrRole, string(a.Role)),
	)
	return &Result{Message: message, Token: token, User: a.Profile()}, nil
}

// burnVerify spends one hash verification so an unknown email costs about
// as much as a wrong password.
func (e *Engine) burnVerify(plaintext string) {
	e.decoyOnce.Do(func() {
		e.decoyDigest, _ = e.hasher.Hash("decoy-password")
	})
	if e.decoyDigest != "" {
		_, _ = e.hasher.Verify(plaintext, e.decoyDigest)
	}
}

// storeFailure keeps an AppError the store already classified and treats
// anything else as a database error.
func (e *Engine) storeFailure(ctx context.Context, op string, err error) *errors.AppError {
	e.log.WithContext(ctx).Error("Account store failed", logger.ErrorFields(op, err))
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.DatabaseError(err)
}

func (e *Engine) internal(ctx context.Context, op string, err error) *errors.AppError {
	e.log.WithContext(ctx).Error("Auth flow failed", logger.ErrorFields(op, err))
	return errors.Internal(err)
}

// finish closes the flow span and counts the attempt.
func (e *Engine) finish(ctx context.Context, span trace.Span, flow string, err error) {
	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = observability.OutcomeRejected
		if appErr, ok := errors.AsAppError(err); !ok || errors.IsInfrastructure(appErr.Code) {
			outcome = observability.OutcomeError
		}
	}
	span.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
	e.metrics.RecordAuthAttempt(ctx, flow, outcome)
	e.finishSpan(span, err)
}

func (e *Engine) finishSpan(span trace.Span, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		span.SetAttributes(attribute.String(observability.AttrErrCode, string(appErr.Code)))
	}
	observability.SetSpanError(span, err)
	span.End()
}
