package users

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/apperr"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	clockport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/clock"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/credential"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/userrepo"
)

// TokenIssuer binds new session tokens to users.
type TokenIssuer interface {
	Issue(ctx context.Context, userID domain.UserID) (domain.SessionToken, error)
}

// TouristIDIssuer is notified after every profile update. IssueOnce must return the
// existing id for users that already have one.
type TouristIDIssuer interface {
	IssueOnce(ctx context.Context, userID domain.UserID) (domain.TouristID, error)
}

type Service struct {
	repo     userrepo.Repository
	digester credential.Digester
	sessions TokenIssuer
	clk      clockport.Clock

	// touristIDs may be nil.
	touristIDs TouristIDIssuer

	newUserID func() domain.UserID

	// profileMu serializes profile read-modify-write cycles.
	profileMu sync.Mutex

	dummyOnce   sync.Once
	dummyDigest string
}

func NewService(repo userrepo.Repository, digester credential.Digester, sessions TokenIssuer, clk clockport.Clock, touristIDs TouristIDIssuer) *Service {
	return &Service{
		repo:       repo,
		digester:   digester,
		sessions:   sessions,
		clk:        clk,
		touristIDs: touristIDs,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	key := strings.TrimSpace(in.AccountKey)
	if key == "" {
		return Session{}, apperr.Validation("invalid email", "email", "must be non-empty")
	}
	if in.Credential == "" {
		return Session{}, apperr.Validation("invalid password", "password", "must be non-empty")
	}
	name := domain.NormalizeHumanName(in.DisplayName)
	if name == "" {
		return Session{}, apperr.Validation("invalid name", "name", "must be non-empty")
	}

	if _, err := s.repo.GetByAccountKey(ctx, key); err == nil {
		return Session{}, accountExists()
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return Session{}, err
	}

	digest, err := s.digester.Digest(in.Credential)
	if err != nil {
		if errors.Is(err, credential.ErrTooLong) {
			return Session{}, apperr.Validation("invalid password", "password", "too long")
		}
		return Session{}, err
	}

	u := userrepo.User{
		ID:               s.newUserID(),
		AccountKey:       key,
		CredentialDigest: digest,
		DisplayName:      name,
		Phone:            trimmedPtr(in.Phone),
		Interests:        []string{},
		CreatedAt:        s.clk.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrAccountKeyTaken) {
			// Lost a race with a concurrent registration of the same key.
			return Session{}, accountExists()
		}
		return Session{}, err
	}

	tok, err := s.sessions.Issue(ctx, u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: toDomain(u), Token: tok}, nil
}

// Authenticate verifies the credential for key and issues a new session token. Unknown
// accounts and wrong credentials are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, key, secret string) (Session, error) {
	u, err := s.repo.GetByAccountKey(ctx, strings.TrimSpace(key))
	if err != nil {
		if !errors.Is(err, userrepo.ErrNotFound) {
			return Session{}, err
		}
		// Dummy comparison for unknown accounts.
		s.digester.Matches(s.dummy(), secret)
		return Session{}, invalidCredentials()
	}
	if !s.digester.Matches(u.CredentialDigest, secret) {
		return Session{}, invalidCredentials()
	}

	tok, err := s.sessions.Issue(ctx, u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: toDomain(u), Token: tok}, nil
}

func (s *Service) Get(ctx context.Context, id domain.UserID) (domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, userNotFound()
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// Creator returns the creator snapshot shown on trip listings. ok is false when the user
// does not exist.
func (s *Service) Creator(ctx context.Context, id domain.UserID) (domain.CreatorSummary, bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.CreatorSummary{}, false, nil
		}
		return domain.CreatorSummary{}, false, err
	}
	return domain.CreatorSummary{Name: u.DisplayName, AccountKey: u.AccountKey}, true, nil
}

// DisplayName returns the name stamped on outgoing messages. ok is false when the user does
// not exist.
func (s *Service) DisplayName(ctx context.Context, id domain.UserID) (string, bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return u.DisplayName, true, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// UpdateProfile applies the patch, marks the profile complete and stamps UpdatedAt. A
// complete profile always ends up with a tourist id; a failed issuance is retried by the
// next update.
func (s *Service) UpdateProfile(ctx context.Context, id domain.UserID, in UpdateProfileInput) (domain.User, error) {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, userNotFound()
		}
		return domain.User{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.User{}, apperr.Validation("invalid name", "name", "cannot be null")
		}
		name := domain.NormalizeHumanName(in.Name.Value())
		if name == "" {
			return domain.User{}, apperr.Validation("invalid name", "name", "must be non-empty")
		}
		u.DisplayName = name
	}

	applyNullableString(&u.Phone, in.Phone)
	applyNullableString(&u.Bio, in.Bio)
	applyNullableString(&u.Location, in.Location)
	applyNullableString(&u.EmergencyContact, in.EmergencyContact)
	if in.Interests.IsSpecified() {
		if in.Interests.IsNull() {
			u.Interests = []string{}
		} else {
			u.Interests = domain.NormalizeInterests(in.Interests.Value())
		}
	}

	u.ProfileComplete = true
	now := s.clk.Now()
	u.UpdatedAt = &now

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, userNotFound()
		}
		return domain.User{}, err
	}

	if s.touristIDs != nil {
		if _, err := s.touristIDs.IssueOnce(ctx, u.ID); err != nil {
			return domain.User{}, err
		}
	}
	return toDomain(u), nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		d, err := s.digester.Digest("traveltinder-dummy-credential")
		if err == nil {
			s.dummyDigest = d
		}
	})
	return s.dummyDigest
}

func applyNullableString(dst **string, o Optional[string]) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v := strings.TrimSpace(o.Value())
	*dst = &v
}

func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func accountExists() *apperr.Error {
	return &apperr.Error{Status: 409, Code: "ACCOUNT_ALREADY_EXISTS", Message: "an account with this email already exists"}
}

func invalidCredentials() *apperr.Error {
	return &apperr.Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
}

func userNotFound() *apperr.Error {
	return &apperr.Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
}

func toDomain(u userrepo.User) domain.User {
	out := domain.User{
		ID:               u.ID,
		AccountKey:       u.AccountKey,
		DisplayName:      u.DisplayName,
		Phone:            u.Phone,
		Bio:              u.Bio,
		Location:         u.Location,
		Interests:        u.Interests,
		EmergencyContact: u.EmergencyContact,
		ProfileComplete:  u.ProfileComplete,
		Verified:         u.Verified,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if out.Interests == nil {
		out.Interests = []string{}
	}
	return out
}
