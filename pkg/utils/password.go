package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes pw at cost 10, the salt rounds the accounts
// were created with.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), 10)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
