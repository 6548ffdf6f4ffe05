// Package data embeds the default content documents served by the site.
package data

import "embed"

// FS holds personal.json, projects.json, experience.json and skills.json.
//
//go:embed *.json
var FS embed.FS
