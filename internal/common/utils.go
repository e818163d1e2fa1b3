package common

// Fingerprint returns a loggable prefix of a secret. Only the first few
// characters are kept; the full value must never reach the logs.
func Fingerprint(secret string) string {
	const visible = 5
	if len(secret) <= visible {
		return secret + "..."
	}
	return secret[:visible] + "..."
}
