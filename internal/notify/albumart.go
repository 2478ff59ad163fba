//go:build linux

package notify

import "github.com/llehouerou/tideline/internal/mpris"

func findAlbumArt(trackPath string) string {
	return mpris.FindAlbumArt(trackPath)
}
