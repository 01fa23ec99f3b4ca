package artisan

import "strings"

// Kebab converts an identifier such as "QueueName" into its command-line
// form, "queue-name".
//
// Every uppercase letter, except a leading one, is preceded by a hyphen.
// Runs of capitals are not grouped, so "XYZServer" becomes
// "x-y-z-server".
func Kebab(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			if b.Len() > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
