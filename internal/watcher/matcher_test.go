package watcher

import "testing"

func TestIsBundlePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/home/u/Downloads/Foo.AppImage", true},
		{"/home/u/Downloads/foo.appimage", true},
		{"/home/u/Downloads/Foo-1.2.3-x86_64.APPIMAGE", true},
		{"/home/u/Downloads/Foo.AppImage.part", false},
		{"/home/u/Downloads/Foo.AppImage.crdownload", false},
		{"/home/u/Downloads/Foo.AppImage.tmp", false},
		{"/home/u/Downloads/.Foo.AppImage", false},
		{"/home/u/Downloads/Foo.tar.gz", false},
		{"/home/u/Downloads/appimage", false},
		{"/home/u/Downloads/Foo.AppImage.bak", false},
	}

	for _, tt := range tests {
		if got := IsBundlePath(tt.path); got != tt.want {
			t.Errorf("IsBundlePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
