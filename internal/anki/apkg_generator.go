package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// guidNamespace makes note GUIDs stable across exports so that Anki updates
// notes on re-import instead of duplicating them
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://codeberg.org/snonux/drillmaster"))

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	decks        []Deck
	description  string
	now          time.Time
	mediaFiles   map[string]int // maps media filename to media number
	mediaCounter int
}

// NewAPKGGenerator creates a generator for the given deck layout
func NewAPKGGenerator(decks []Deck, description string) *APKGGenerator {
	return &APKGGenerator{
		decks:       decks,
		description: description,
		now:         time.Now(),
		mediaFiles:  make(map[string]int),
	}
}

// MediaCount returns the number of media files packaged by the last
// GenerateAPKG call
func (g *APKGGenerator) MediaCount() int {
	return len(g.mediaFiles)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "anki_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	if err := g.copyMediaFiles(tempDir); err != nil {
		return fmt.Errorf("failed to copy media files: %w", err)
	}

	if err := g.createMediaMapping(tempDir); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := g.createZipPackage(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := g.createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return nil
}

var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

// createTables creates the required Anki database tables
func (g *APKGGenerator) createTables(db *sql.DB) error {
	for _, query := range schema {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

func deckJSON(id int64, name, desc string, mod int64) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"mod":              mod,
		"desc":             desc,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

// insertCollection inserts the collection metadata
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := g.now.Unix()

	decks := map[string]any{
		strconv.FormatInt(defaultDeck, 10): deckJSON(defaultDeck, "Default", "", now),
	}
	for _, d := range g.decks {
		decks[strconv.FormatInt(d.ID, 10)] = deckJSON(d.ID, d.Name, g.description, now)
	}
	decksJSON, err := json.Marshal(decks)
	if err != nil {
		return err
	}

	models := map[string]any{
		strconv.FormatInt(NoteTypeID, 10): g.createNoteTypeConfig(),
	}
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return err
	}

	conf := map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{defaultDeck},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       defaultDeck,
		"newBury":       true,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      strconv.FormatInt(NoteTypeID, 10),
		"dayLearnFirst": false,
	}
	confJSON, err := json.Marshal(conf)
	if err != nil {
		return err
	}

	dconf := map[string]any{
		"1": map[string]any{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]any{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]any{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]any{
				"perDay":   200,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	}
	dconfJSON, err := json.Marshal(dconf)
	if err != nil {
		return err
	}

	query := `INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.Exec(query,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		string(confJSON),
		string(modelsJSON),
		string(decksJSON),
		string(dconfJSON),
		"{}", // tags
	)
	return err
}

// createNoteTypeConfig creates the two field translation note type
func (g *APKGGenerator) createNoteTypeConfig() map[string]any {
	field := func(name string, ord int) map[string]any {
		return map[string]any{
			"name":   name,
			"ord":    ord,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		}
	}
	return map[string]any{
		"id":        NoteTypeID,
		"name":      "Drillmaster Translation",
		"type":      0,
		"mod":       g.now.Unix(),
		"usn":       0,
		"sortf":     0,
		"did":       nil,
		"req":       []any{[]any{0, "any", []int{0}}},
		"vers":      []int{},
		"tags":      []string{},
		"latexPre":  "",
		"latexPost": "",
		"latexsvg":  false,
		"flds":      []map[string]any{field("Front", 0), field("Back", 1)},
		"tmpls": []map[string]any{
			{
				"name":  "Card 1",
				"ord":   0,
				"qfmt":  "{{Front}}",
				"afmt":  "{{Front}}<hr id=answer>{{Back}}",
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: black;
  background-color: white;
}

strong {
  color: #c0392b;
}`,
	}
}

// noteGUID derives a stable GUID from the note fields
func noteGUID(fields string) string {
	return uuid.NewSHA1(guidNamespace, []byte(fields)).String()
}

// checksum is the Anki field checksum: the first 8 hex digits of the SHA1 of
// the stripped sort field
func checksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return n
}

// stripHTML removes tags and sound references from a field
func stripHTML(s string) string {
	s = htmlTag.ReplaceAllString(s, "")
	if i := strings.Index(s, "[sound:"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// insertNotesAndCards inserts one note and one card per deck card
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) error {
	mod := g.now.Unix()
	noteID := g.now.UnixMilli()
	position := 0

	noteQuery := `INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	cardQuery := `INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, deck := range g.decks {
		for _, card := range deck.Cards {
			noteID++
			position++

			// Fields are joined with the unit separator (ASCII 31)
			fields := card.Front + "\x1f" + card.Back
			sortField := stripHTML(card.Front)
			tags := ""
			if len(card.Tags) > 0 {
				tags = " " + strings.Join(card.Tags, " ") + " "
			}

			_, err := db.Exec(noteQuery,
				noteID,              // id
				noteGUID(fields),    // guid
				NoteTypeID,          // mid
				mod,                 // mod
				-1,                  // usn
				tags,                // tags
				fields,              // flds
				sortField,           // sfld
				checksum(sortField), // csum
				0,                   // flags
				"",                  // data
			)
			if err != nil {
				return fmt.Errorf("failed to insert note: %w", err)
			}

			_, err = db.Exec(cardQuery,
				noteID,   // id
				noteID,   // nid
				deck.ID,  // did
				0,        // ord
				mod,      // mod
				-1,       // usn
				0,        // type (0=new)
				0,        // queue (0=new)
				position, // due (position for new cards)
				0,        // ivl
				0,        // factor
				0,        // reps
				0,        // lapses
				0,        // left
				0,        // odue
				0,        // odid
				0,        // flags
				"",       // data
			)
			if err != nil {
				return fmt.Errorf("failed to insert card: %w", err)
			}
		}
	}

	return nil
}

// copyMediaFiles copies the audio of every card into tempDir under its
// media number
func (g *APKGGenerator) copyMediaFiles(tempDir string) error {
	g.mediaFiles = make(map[string]int)
	g.mediaCounter = 0

	for _, deck := range g.decks {
		for _, card := range deck.Cards {
			if card.AudioFile == "" || !fileExists(card.AudioFile) {
				continue
			}
			name := filepath.Base(card.AudioFile)
			if _, exists := g.mediaFiles[name]; exists {
				continue
			}
			targetPath := filepath.Join(tempDir, strconv.Itoa(g.mediaCounter))
			if err := copyFile(card.AudioFile, targetPath); err != nil {
				return fmt.Errorf("failed to copy audio file %s: %w", card.AudioFile, err)
			}
			g.mediaFiles[name] = g.mediaCounter
			g.mediaCounter++
		}
	}

	return nil
}

// createMediaMapping creates the media mapping JSON file
func (g *APKGGenerator) createMediaMapping(tempDir string) error {
	mapping := make(map[string]string)
	for filename, num := range g.mediaFiles {
		mapping[strconv.Itoa(num)] = filename
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(tempDir, "media"), data, 0644)
}

// createZipPackage creates the final .apkg zip file
func (g *APKGGenerator) createZipPackage(tempDir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = zipFile.Close() }()

	archive := zip.NewWriter(zipFile)
	defer func() { _ = archive.Close() }()

	return filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(tempDir, path)
		if err != nil {
			return err
		}

		writer, err := archive.Create(relPath)
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()

		_, err = io.Copy(writer, file)
		return err
	})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
