//go:build !linux

package notify

func findAlbumArt(string) string { return "" }
