package catalog

import (
	"regexp"

	"github.com/textguard/textguard/internal/types"
)

// Priority bands. PII runs before attack patterns so that identical spans
// keep their PII classification after dedupe.
const (
	prioEmail      = 100
	prioSSN        = 95
	prioCard       = 90
	prioPhone      = 85
	prioIP         = 80
	prioIdentity   = 70
	prioBusiness   = 65
	prioCorporate  = 60
	prioPlate      = 60
	prioAccount    = 50
	prioXSS        = 45
	prioSQL        = 40
	prioCommand    = 35
	prioScript     = 35
	prioPrompt     = 30
	prioPromptWeak = 25
)

type builtin struct {
	t        types.ThreatType
	expr     string
	desc     string
	prio     int
	validate bool
}

var builtinRules = []builtin{
	// Contact details
	{types.Email, `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`, "Email address", prioEmail, false},

	// National identifiers: Korean resident registration (incl. foreigner
	// registration 5-8) and US SSN.
	{types.SSN, `\b\d{2}(?:0[1-9]|1[0-2])(?:0[1-9]|[12]\d|3[01])-?[1-8]\d{6}\b`, "Resident registration number", prioSSN, false},
	{types.SSN, `\b\d{3}-\d{2}-\d{4}\b`, "US social security number", prioSSN - 1, false},

	// Payment cards, confirmed by Luhn.
	{types.CreditCard, `\b(?:4\d{3}|5[1-5]\d{2}|2[2-7]\d{2}|6(?:011|5\d{2})|35\d{2}|9\d{3})[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}(?:\d{3})?\b`, "Payment card number", prioCard, true},
	{types.CreditCard, `\b3[47]\d{2}[- ]?\d{6}[- ]?\d{5}\b`, "Payment card number (AMEX)", prioCard, true},

	// Phone numbers: domestic Korean numbering and +CC international form.
	{types.PhoneNumber, `\b0(?:1[016789]|2|[3-6][1-5]|70)-?\d{3,4}-?\d{4}\b`, "Phone number", prioPhone, false},
	{types.PhoneNumber, `\+\d{1,3}[- ]?\d{1,4}[- ]?\d{3,4}[- ]?\d{4}\b`, "International phone number", prioPhone, false},

	// Network addresses
	{types.IPv4Address, `\b(?:(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\.){3}(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\b`, "IPv4 address", prioIP, false},
	{types.IPv6Address, `\b(?:[0-9A-Fa-f]{1,4}:){7}[0-9A-Fa-f]{1,4}\b`, "IPv6 address", prioIP, false},
	{types.IPv6Address, `\b(?:[0-9A-Fa-f]{1,4}:){1,6}(?::[0-9A-Fa-f]{1,4}){1,6}\b`, "IPv6 address (compressed)", prioIP - 1, false},

	// Travel and driving documents
	{types.PassportNumber, `\b[MSRGDO]\d{8}\b`, "Passport number", prioIdentity, false},
	{types.PassportNumber, `\b[MSRGDO]\d{3}[A-Z]\d{4}\b`, "Passport number (2021 format)", prioIdentity, false},
	{types.DriverLicense, `\b\d{2}-\d{2}-\d{6}-\d{2}\b`, "Driver license number", prioIdentity, false},
	{types.LicensePlate, `\b\d{2,3}\s?[가나다라마거너더러머버서어저고노도로모보소오조구누두루무부수우주아바사자배하허호]\s?\d{4}\b`, "Vehicle license plate", prioPlate, false},

	// Business identifiers
	{types.BusinessNumber, `\b\d{3}-\d{2}-\d{5}\b`, "Business registration number", prioBusiness, true},
	{types.CorporateNumber, `\b\d{6}-\d{7}\b`, "Corporate registration number", prioCorporate, false},
	{types.AccountNumber, `\b\d{3,6}-\d{2,6}-\d{4,7}(?:-\d{1,3})?\b`, "Bank account number", prioAccount, false},

	// Markup and script injection
	{types.XSSAttack, `(?is)<script\b[^>]*>.*?</script\s*>`, "Script tag block", prioXSS, false},
	{types.XSSAttack, `(?i)<script\b[^>]*>`, "Script tag", prioXSS - 1, false},
	{types.XSSAttack, `(?i)<(?:iframe|object|embed)\b[^>]*>`, "Embedded frame or object tag", prioXSS - 1, false},
	{types.XSSAttack, `(?i)<[a-z]+\b[^>]*\bon(?:error|load|click|mouseover|focus|blur|submit)\s*=[^>]*>`, "Inline event handler", prioXSS - 1, false},
	{types.XSSAttack, `(?i)javascript\s*:`, "javascript: URL", prioXSS - 2, false},

	{types.SQLInjection, `(?i)\bunion\s+(?:all\s+)?select\b`, "UNION-based SQL injection", prioSQL, false},
	{types.SQLInjection, `(?i)\bselect\s+(?:\*|[\w.]+(?:\s*,\s*[\w.]+)*)\s+from\s+\w+`, "SELECT statement", prioSQL, false},
	{types.SQLInjection, `(?i)\b(?:insert\s+into|delete\s+from|drop\s+(?:table|database)|truncate\s+table|alter\s+table)\s+\w+`, "Data-modifying SQL statement", prioSQL, false},
	{types.SQLInjection, `(?i)\bupdate\s+\w+\s+set\s+\w+\s*=`, "UPDATE statement", prioSQL, false},
	{types.SQLInjection, `(?i)\bor\s+(?:\d+\s*=\s*\d+|'[^']*'\s*=\s*'[^']*|true\b)`, "Tautology condition", prioSQL - 1, false},
	{types.SQLInjection, `(?i)(?:'|\b\d+)\s*;\s*--`, "Statement terminator with comment", prioSQL - 1, false},
	{types.SQLInjection, `(?i)\b(?:exec|execute)\s+(?:xp_|sp_)\w+`, "Stored procedure execution", prioSQL - 1, false},
	{types.SQLInjection, `(?i)\b(?:sleep|benchmark|pg_sleep)\s*\(\s*\d|\bwaitfor\s+delay\s+'`, "Time-based SQL injection", prioSQL - 1, false},

	{types.ScriptInjection, `(?i)\beval\s*\(`, "eval() call", prioScript, false},
	{types.ScriptInjection, `(?i)\bnew\s+Function\s*\(`, "Function constructor", prioScript, false},
	{types.ScriptInjection, `(?i)\bdocument\s*\.\s*(?:cookie|write|domain)\b`, "Document access", prioScript, false},
	{types.ScriptInjection, `(?i)\bwindow\s*\.\s*location\b`, "Window location access", prioScript, false},
	{types.ScriptInjection, `(?i)\b(?:setTimeout|setInterval)\s*\(\s*['"]`, "String timer callback", prioScript, false},
	{types.ScriptInjection, `\{\{[^{}]*(?:constructor|__proto__|\.__class__|config)[^{}]*\}\}`, "Template injection", prioScript, false},

	{types.CommandInjection, `(?i)(?:;|&&|\|\||\|)\s*(?:rm|cat|ls|wget|curl|nc|ncat|bash|sh|zsh|chmod|chown|whoami|uname|ping|nslookup|powershell|cmd)\b`, "Chained shell command", prioCommand, false},
	{types.CommandInjection, `\$\([^)]*\)`, "Command substitution", prioCommand, false},
	{types.CommandInjection, `(?i)\brm\s+-[a-z]*r[a-z]*f?\s+/`, "Recursive delete", prioCommand, false},
	{types.CommandInjection, `(?i)/etc/(?:passwd|shadow)\b`, "System credential file access", prioCommand, false},
	{types.CommandInjection, `(?:\.\./){2,}`, "Path traversal", prioCommand - 1, false},

	{types.PromptInjection, `(?i)\b(?:ignore|disregard|forget)\s+(?:all\s+|any\s+|the\s+)?(?:previous|prior|above|earlier)\s+(?:instructions|prompts|rules|context)`, "Instruction override", prioPrompt, false},
	{types.PromptInjection, `(?i)\b(?:reveal|show|print|repeat)\s+(?:me\s+)?(?:your|the)\s+(?:system\s+prompt|hidden\s+instructions|initial\s+instructions)`, "System prompt extraction", prioPrompt, false},
	{types.PromptInjection, `(?i)\b(?:developer|debug|admin|god)\s+mode\s+(?:enabled|activated|on)\b`, "Privileged mode request", prioPrompt, false},
	{types.PromptInjection, `(?i)\b(?:jailbreak|do\s+anything\s+now)\b`, "Jailbreak phrase", prioPrompt, false},
	{types.PromptInjection, `이전\s*(?:의\s*)?(?:모든\s*)?(?:지시|지침|명령|프롬프트)\S*\s*(?:을|를)?\s*(?:모두\s*)?무시`, "Instruction override (Korean)", prioPrompt, false},
	{types.PromptInjection, `시스템\s*프롬프트\S*\s*(?:을|를)?\s*(?:보여|알려|출력|공개)`, "System prompt extraction (Korean)", prioPrompt, false},
	{types.PromptInjection, `(?i)\byou\s+are\s+now\s+(?:a|an|the)\s+`, "Role override", prioPromptWeak, false},
	{types.PromptInjection, `(?i)\b(?:new|updated|revised)\s+instructions?\s*:`, "Injected instruction block", prioPromptWeak, false},
}

// Builtins compiles the built-in rule table. Built-ins are matched exactly
// as written; they carry their own inline flags where case matters.
func Builtins() []Pattern {
	out := make([]Pattern, 0, len(builtinRules))
	for _, b := range builtinRules {
		out = append(out, Pattern{
			Type:            b.t,
			Regex:           regexp.MustCompile(b.expr),
			Description:     b.desc,
			NeedsValidation: b.validate,
			Priority:        b.prio,
		})
	}
	return out
}
