package validate

import "strings"

// ID accepts strictly positive ids.
func ID(id int32) bool { return id > 0 }

// Email accepts local@domain.tld shapes built from alphanumerics and . _ - +.
func Email(s string, allowEmpty bool) bool {
	if s == "" {
		return allowEmpty
	}
	if len(s) < 6 {
		return false
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 || strings.IndexByte(s[at+1:], '@') >= 0 {
		return false
	}
	dot := strings.LastIndexByte(s, '.')
	if dot < at || dot == len(s)-1 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isAlnum(c) && c != '@' && c != '.' && c != '_' && c != '-' && c != '+' {
			return false
		}
	}
	return true
}

// Phone accepts DDD-DDD-DDDD.
func Phone(s string, allowEmpty bool) bool {
	if s == "" {
		return allowEmpty
	}
	return matchPattern(s, "DDD-DDD-DDDD")
}

// Date accepts YYYY-MM-DD with a coarse calendar check: February allows up to
// day 29 in every year and 30-day months reject day 31.
func Date(s string, allowEmpty bool) bool {
	if s == "" {
		return allowEmpty
	}
	if !matchPattern(s, "DDDD-DD-DD") {
		return false
	}
	year := atoi(s[0:4])
	month := atoi(s[5:7])
	day := atoi(s[8:10])
	if year < 1900 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	switch month {
	case 2:
		return day <= 29
	case 4, 6, 9, 11:
		return day <= 30
	}
	return true
}

// State accepts two uppercase ASCII letters.
func State(s string, allowEmpty bool) bool {
	if s == "" {
		return allowEmpty
	}
	return len(s) == 2 && isUpper(s[0]) && isUpper(s[1])
}

// Zip accepts exactly five digits.
func Zip(s string, allowEmpty bool) bool {
	if s == "" {
		return allowEmpty
	}
	return matchPattern(s, "DDDDD")
}

// matchPattern checks s against a template where D is any digit and every
// other byte must match literally.
func matchPattern(s, pattern string) bool {
	if len(s) != len(pattern) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if pattern[i] == 'D' {
			if !isDigit(s[i]) {
				return false
			}
		} else if s[i] != pattern[i] {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isAlnum(c byte) bool { return isDigit(c) || isUpper(c) || (c >= 'a' && c <= 'z') }
