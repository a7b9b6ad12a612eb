// Package corpus loads, walks and saves the verb conjugation corpus files.
// A corpus file maps verb → tense → sentence list. Loading keeps the key
// order and every field the toolkit does not know about, so a pass that only
// touches a few sentences rewrites the file with a minimal diff.
package corpus
