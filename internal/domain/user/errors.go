package user

import "errors"

var (
	ErrUnsupportedRole         = errors.New("unsupported role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrSchoolRequired          = errors.New("district and school are required")
)
