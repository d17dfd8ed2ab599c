// Package region maps catalog names to playback speed labels.
//
// No-Intro style names carry their release regions in parenthesized,
// comma-separated tag groups, for example "Super Game (USA, Europe)". A Table
// holds the two region vocabularies (regions that contribute a 60Hz label and
// regions that contribute a 50Hz label) and classifies names against them.
//
// Every name is labeled 60Hz. A name is additionally labeled 50Hz when one of
// its tags is a 50Hz region, so hybrid releases land in both speed trees.
// Tables are built once at startup and are safe for concurrent reads.
package region
