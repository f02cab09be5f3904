package ytdlp

// AudioArgs builds the argument vector for extracting a URL's audio track
// as MP3 into dest.
func AudioArgs(url, dest string) []string {
	return []string{"-x", "--audio-format", "mp3", "-o", dest, url}
}

// VideoArgs builds the argument vector for downloading the best available
// format of a URL into dest.
func VideoArgs(url, dest string) []string {
	return []string{"-f", "best", "-o", dest, url}
}
