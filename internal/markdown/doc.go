// Package markdown renders markdown fields to HTML and imports front matter
// documents as flat form records.
package markdown
