// Package git checks whether files holding pwcrypt secrets are exposed to git.
//
// The config file may carry encryption_key in plain text and the form database
// holds field values, so both should be untracked and listed in .gitignore.
package git
