package validators

import "regexp"

// Digits, spaces, parens and dashes, optional leading +; 7 to 20 characters.
var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,18}[0-9]$`)

func IsPhoneValid(phone string) bool {
	return phoneRe.MatchString(phone)
}
