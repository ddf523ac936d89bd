package auth

import "errors"

var (
	MissingCredentialsErr = errors.New("username and password are required")
	MissingAccessTokenErr = errors.New("response carried no access token")
	MissingUserErr        = errors.New("login response carried no user")
)
