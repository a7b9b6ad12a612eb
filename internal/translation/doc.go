// Package translation provides Spanish to English sentence translation
// using the OpenAI API. It includes a translation cache shared across corpus
// files and the fill-english pass that completes sentences without English.
package translation
