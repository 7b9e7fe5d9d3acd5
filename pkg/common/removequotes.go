package common

// RemoveQuotesIfAny strips one pair of matching single or double quotes around `str`. Paths with spaces are
// usually pasted quoted into the console.
func RemoveQuotesIfAny(str string) string {
	if len(str) < 2 {
		return str
	}
	first, last := str[0], str[len(str)-1]
	if first == last && (first == '\'' || first == '"') {
		return str[1 : len(str)-1]
	}
	return str
}
