package validator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tyretrust/internal/domain/model"
	repo "tyretrust/internal/repository"
	"tyretrust/internal/usecase"
	"tyretrust/internal/validator"
)

type AuthUserRepoMock struct{ mock.Mock }

func (m *AuthUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *AuthUserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in auth validator tests")
}

func (m *AuthUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	panic("not used in auth validator tests")
}

func (m *AuthUserRepoMock) Update(ctx context.Context, user *model.User) error {
	panic("not used in auth validator tests")
}

func (m *AuthUserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	panic("not used in auth validator tests")
}

func (m *AuthUserRepoMock) List(ctx context.Context, q repo.UserListQuery) ([]model.User, int64, error) {
	panic("not used in auth validator tests")
}

func registerReq() usecase.AuthRegisterRequest {
	return usecase.AuthRegisterRequest{
		Email:     "ivan@example.com",
		Password:  "password1",
		FirstName: "Ivan",
		LastName:  "Petrov",
	}
}

func TestAuthValidator_ValidateRegister(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *usecase.AuthRegisterRequest)
		want   error
	}{
		{"ok", func(r *usecase.AuthRegisterRequest) {}, nil},
		{"empty names ok", func(r *usecase.AuthRegisterRequest) { r.FirstName, r.LastName = "", "" }, nil},
		{"missing email", func(r *usecase.AuthRegisterRequest) { r.Email = "" }, validator.ErrInvalidInput},
		{"bad email", func(r *usecase.AuthRegisterRequest) { r.Email = "not-an-email" }, validator.ErrInvalidInput},
		{"short password", func(r *usecase.AuthRegisterRequest) { r.Password = "1234567" }, validator.ErrInvalidInput},
		// varchar(50)に入らない氏名は拒否
		{"first name too long", func(r *usecase.AuthRegisterRequest) { r.FirstName = strings.Repeat("あ", 51) }, validator.ErrInvalidInput},
		{"last name too long", func(r *usecase.AuthRegisterRequest) { r.LastName = strings.Repeat("a", 51) }, validator.ErrInvalidInput},
		{"name at limit ok", func(r *usecase.AuthRegisterRequest) { r.FirstName = strings.Repeat("あ", 50) }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(AuthUserRepoMock)
			users.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, repo.ErrNotFound).Maybe()

			v := validator.NewAuthValidator(users)
			req := registerReq()
			tc.mutate(&req)

			err := v.ValidateRegister(context.Background(), req)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestAuthValidator_ValidateRegister_DuplicateEmail(t *testing.T) {
	users := new(AuthUserRepoMock)
	users.On("FindByEmail", mock.Anything, "ivan@example.com").
		Return(&model.User{ID: 1, Email: "ivan@example.com"}, nil)

	v := validator.NewAuthValidator(users)
	err := v.ValidateRegister(context.Background(), registerReq())
	assert.ErrorIs(t, err, validator.ErrEmailAlreadyUsed)
}

func TestAuthValidator_ValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator(new(AuthUserRepoMock))

	assert.NoError(t, v.ValidateLogin(context.Background(), "ivan@example.com", "password1"))
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "", "password1"), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin(context.Background(), "no-at-sign", "password1"), validator.ErrInvalidInput)
}
