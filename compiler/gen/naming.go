package gen

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	acronyms = make(map[string]bool)
	rules    = ruleset()
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = true
		rules.AddAcronym(w)
	}
	return rules
}

// pascal converts a property or type name to PascalCase. Go identifiers only
// get their first letter upper-cased. In snake or kebab case names every word
// is capitalized and known initialisms are upper-cased:
//
//	user_info => UserInfo
//	api_url   => APIURL
//	items     => Items
func pascal(s string) string {
	if !strings.ContainsAny(s, "_-") {
		return upperFirst(s)
	}
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		if up := strings.ToUpper(w); acronyms[up] {
			b.WriteString(up)
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}

// camel converts a name to camelCase, lowering a leading initialism as a
// whole:
//
//	Items   => items
//	ID      => id
//	URLPath => urlPath
//	IDs     => ids
//	user_id => userID
func camel(s string) string {
	s = pascal(s)
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsUpper(r) {
			break
		}
		n += size
	}
	switch {
	case n == 0:
		return s
	case n == len(s), s[n:] == "s":
		return strings.ToLower(s)
	case n > utf8.RuneLen(firstRune(s)):
		// The last upper-case rune starts the next word.
		_, size := utf8.DecodeLastRuneInString(s[:n])
		n -= size
	}
	return strings.ToLower(s[:n]) + s[n:]
}

// snake converts the given name to snake_case:
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
//	UserIDs  => user_ids
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// A word starts at an upper-case letter following a lower-case one
		// ("UserInfo"), or at the last letter of an initialism ("HTTPCode").
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// singular returns the singular form of a property name, e.g. "items" is
// "item". Uncountable names are returned unchanged.
func singular(s string) string {
	return rules.Singularize(s)
}

// builderField returns the struct field for the given property name and
// ensures it doesn't conflict with Go keywords and the private fields of the
// generated builder.
func builderField(name string) string {
	if privateField[name] || token.Lookup(name).IsKeyword() {
		return "_" + name
	}
	return name
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func names(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// private fields used by the generated builder base.
var privateField = names(
	"self",
	"partial",
)
