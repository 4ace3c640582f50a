package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit; longer passwords are truncated.
const MaxPasswordBytes = 72

// PasswordService hashes and checks passwords with bcrypt.
type PasswordService struct {
	bcryptCost int
}

func NewPasswordService(bcryptCost int) *PasswordService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &PasswordService{bcryptCost: bcryptCost}
}

func (s *PasswordService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(password), s.bcryptCost)
	if err != nil {
		return "", ErrHashPassword.Wrap(err)
	}
	return string(hash), nil
}

func (s *PasswordService) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
