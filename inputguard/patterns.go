package inputguard

import "regexp"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// hostnameLabelPattern matches a single hostname label: starts and ends
// alphanumeric, hyphens allowed inside.
var hostnameLabelPattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

var sqlPatterns = []namedPattern{
	{"sql_keyword", regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|create|alter|exec|union)\b`)},
	{"comment_marker", regexp.MustCompile(`--|#|/\*`)},
	{"statement_separator", regexp.MustCompile(`[;|&]`)},
	{"stored_procedure", regexp.MustCompile(`(?i)\b(xp_|sp_)\w*`)},
}

var scriptPatterns = []namedPattern{
	{"script_tag", regexp.MustCompile(`(?i)<\s*script`)},
	{"javascript_uri", regexp.MustCompile(`(?i)javascript\s*:`)},
	{"event_handler", regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)},
	{"embedded_object", regexp.MustCompile(`(?i)<\s*(iframe|object|embed)`)},
}
