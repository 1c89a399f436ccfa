package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyharbor/fleetops-api/internal/models"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type fakeCrewDirectory struct {
	accounts map[string]models.Account
	crew     map[string]models.CrewMember
}

func (f *fakeCrewDirectory) FindAccount(ctx context.Context, role models.Role, email string) (*models.Account, error) {
	if account, ok := f.accounts[accountKey(role, email)]; ok {
		return &account, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCrewDirectory) CreateAccount(ctx context.Context, account *models.Account) error {
	f.accounts[accountKey(account.Role, account.Email)] = *account
	if account.Role == models.RoleCrew {
		f.crew[account.Email] = models.CrewMember{
			Email:   account.Email,
			Name:    account.Name,
			Phone:   account.Phone,
			IsPilot: account.IsPilot,
		}
	}
	return nil
}

func (f *fakeCrewDirectory) ListCrewMembers(ctx context.Context, isPilot *bool) ([]models.CrewMember, error) {
	var out []models.CrewMember
	for _, member := range f.crew {
		if isPilot != nil && member.IsPilot != *isPilot {
			continue
		}
		out = append(out, member)
	}
	return out, nil
}

func (f *fakeCrewDirectory) FindCrewMember(ctx context.Context, email string) (*models.CrewMember, error) {
	if member, ok := f.crew[email]; ok {
		return &member, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCrewDirectory) SetCrewPilotFlag(ctx context.Context, email string, isPilot bool) error {
	member, ok := f.crew[email]
	if !ok {
		return sql.ErrNoRows
	}
	member.IsPilot = isPilot
	f.crew[email] = member
	return nil
}

func newAccountFixture() (*fakeCrewDirectory, *AccountService) {
	repo := &fakeCrewDirectory{
		accounts: map[string]models.Account{},
		crew:     map[string]models.CrewMember{},
	}
	return repo, NewAccountService(repo, repo, nil, nil)
}

func TestCreateAccountHashesPassword(t *testing.T) {
	repo, svc := newAccountFixture()

	account, err := svc.CreateAccount(context.Background(), CreateAccountRequest{
		Email:    "new@skyharbor.io",
		Name:     "Noa New",
		Password: "longenough",
		Role:     string(models.RoleCrew),
		IsPilot:  true,
	})
	require.NoError(t, err)
	assert.Empty(t, account.PasswordHash)

	stored := repo.accounts[accountKey(models.RoleCrew, "new@skyharbor.io")]
	require.NotEmpty(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
	assert.True(t, repo.crew["new@skyharbor.io"].IsPilot)
}

func TestCreateAccountDuplicate(t *testing.T) {
	repo, svc := newAccountFixture()
	repo.accounts[accountKey(models.RoleScheduler, "dup@skyharbor.io")] = models.Account{Email: "dup@skyharbor.io"}

	_, err := svc.CreateAccount(context.Background(), CreateAccountRequest{
		Email:    "dup@skyharbor.io",
		Name:     "Dup",
		Password: "longenough",
		Role:     string(models.RoleScheduler),
	})
	requireAppError(t, err, appErrors.ErrDuplicateKey.Code)
}

func TestCreateAccountUnknownRole(t *testing.T) {
	_, svc := newAccountFixture()
	_, err := svc.CreateAccount(context.Background(), CreateAccountRequest{
		Email:    "x@skyharbor.io",
		Name:     "X",
		Password: "longenough",
		Role:     "DISPATCHER",
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}

func TestSetCrewRole(t *testing.T) {
	repo, svc := newAccountFixture()
	repo.crew["cabin@skyharbor.io"] = models.CrewMember{Email: "cabin@skyharbor.io", Name: "Ben Cabin"}

	member, err := svc.SetCrewRole(context.Background(), "cabin@skyharbor.io", SetCrewRoleRequest{IsPilot: true})
	require.NoError(t, err)
	assert.True(t, member.IsPilot)
	assert.True(t, repo.crew["cabin@skyharbor.io"].IsPilot)

	_, err = svc.SetCrewRole(context.Background(), "ghost@skyharbor.io", SetCrewRoleRequest{IsPilot: true})
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}
