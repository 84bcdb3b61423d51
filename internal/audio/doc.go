// Package audio embeds downloaded cover art into audio files.
//
// When enabled, the downloader hands every saved cover to a Tagger, which
// writes it as the ID3 front cover of the MP3 files already present in the
// album directory:
//
//	tagger := audio.NewTagger()
//	n, err := tagger.EmbedCover(albumDir, cover)
package audio
