// Package cache persists finished transcripts keyed by the MD5 of the audio
// file and the whisper model that produced them.
//
// The store is a single flat JSON object ({"<hash>_<model>": "<text>"}) so it
// stays readable and compatible with caches written by earlier versions of the
// tool. Writes re-read the file under an advisory lock, set one key and
// replace the file atomically; concurrent writers therefore resolve as
// last-write-wins per key. There is no eviction.
package cache
