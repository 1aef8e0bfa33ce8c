// Package assets embeds static assets used by the reporter.
package assets

import _ "embed"

// CTRFSchema is the JSON schema reports are validated against
//
//go:embed ctrf.schema.json
var CTRFSchema string
