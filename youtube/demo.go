package youtube

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
)

// placeholderTitle is the default title when extraction finds nothing. A
// record still carrying it after extraction is replaced wholesale by a demo
// record, so callers never see the bare placeholder.
const placeholderTitle = "Untitled video"

// demoRecords is the fixed table of demo data for well-known video IDs, used
// as the offline/testing safety net when fallback extraction produces
// nothing usable. Records built from this table always carry
// UsedFallbackData so callers can tell fabricated data from real data.
var demoRecords = map[string]VideoRecord{
	"dQw4w9WgXcQ": {
		ID:              "dQw4w9WgXcQ",
		Title:           "Rick Astley - Never Gonna Give You Up (Official Music Video)",
		DurationSeconds: 213,
		ViewCount:       1_500_000_000,
		LikeCount:       17_000_000,
		PublishedAt:     time.Date(2009, time.October, 25, 0, 0, 0, 0, time.UTC),
	},
	"9bZkp7q19f0": {
		ID:              "9bZkp7q19f0",
		Title:           "PSY - GANGNAM STYLE(강남스타일) M/V",
		DurationSeconds: 253,
		ViewCount:       5_100_000_000,
		LikeCount:       27_000_000,
		PublishedAt:     time.Date(2012, time.July, 15, 0, 0, 0, 0, time.UTC),
	},
	"kJQP7kiw5Fk": {
		ID:              "kJQP7kiw5Fk",
		Title:           "Luis Fonsi - Despacito ft. Daddy Yankee",
		DurationSeconds: 282,
		ViewCount:       8_400_000_000,
		LikeCount:       52_000_000,
		PublishedAt:     time.Date(2017, time.January, 12, 0, 0, 0, 0, time.UTC),
	},
	"jNQXAC9IVRw": {
		ID:              "jNQXAC9IVRw",
		Title:           "Me at the zoo",
		DurationSeconds: 19,
		ViewCount:       320_000_000,
		LikeCount:       16_000_000,
		PublishedAt:     time.Date(2005, time.April, 23, 0, 0, 0, 0, time.UTC),
	},
	"OPf0YbXqDm0": {
		ID:              "OPf0YbXqDm0",
		Title:           "Mark Ronson - Uptown Funk (Official Video) ft. Bruno Mars",
		DurationSeconds: 270,
		ViewCount:       5_300_000_000,
		LikeCount:       22_000_000,
		PublishedAt:     time.Date(2014, time.November, 19, 0, 0, 0, 0, time.UTC),
	},
}

// demoGenerator fabricates plausible records for IDs outside the fixed
// table. Generated values are reproducible within one run: the same ID asked
// twice in a run yields the same record, but different runs differ.
type demoGenerator struct {
	runSeed int64
}

func newDemoGenerator(runSeed int64) *demoGenerator {
	return &demoGenerator{runSeed: runSeed}
}

// Record returns the demo record for an ID: the fixed table when known, a
// seeded placeholder otherwise. UsedFallbackData is always set.
func (g *demoGenerator) Record(videoID string) VideoRecord {
	if rec, ok := demoRecords[videoID]; ok {
		rec.UsedFallbackData = true
		return rec
	}
	return g.generated(videoID)
}

func (g *demoGenerator) generated(videoID string) VideoRecord {
	h := fnv.New64a()
	h.Write([]byte(videoID))
	rnd := rand.New(rand.NewSource(g.runSeed ^ int64(h.Sum64())))

	days := rnd.Intn(3650) + 30
	return VideoRecord{
		ID:               videoID,
		Title:            fmt.Sprintf("Sample Video %s", videoID),
		DurationSeconds:  rnd.Intn(840) + 60,
		ViewCount:        int64(rnd.Intn(9_000_000)) + 1_000,
		LikeCount:        int64(rnd.Intn(90_000)) + 100,
		PublishedAt:      time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour),
		UsedFallbackData: true,
	}
}
