package syncstate

import "testing"

func TestRefreshesViewAllowedSet(t *testing.T) {
	allowed := map[FolderStatus]bool{
		FolderSyncPrepare: true,
		FolderSuccess:     true,
		FolderPaused:      true,
		FolderProblem:     true,
		FolderError:       true,
		FolderSetupError:  true,
	}
	for status := FolderUndefined; status <= FolderPaused; status++ {
		if got := status.RefreshesView(); got != allowed[status] {
			t.Fatalf("%s: RefreshesView=%v want %v", status, got, allowed[status])
		}
	}
}

func TestFileStatusSocketStringRoundTrip(t *testing.T) {
	tests := []struct {
		status FileStatus
		want   string
	}{
		{FileStatus{}, "NOP"},
		{FileStatus{Tag: StatusSync}, "SYNC"},
		{FileStatus{Tag: StatusUpToDate, Shared: true}, "OK+SWM"},
		{FileStatus{Tag: StatusExcluded}, "IGNORE"},
		{FileStatus{Tag: StatusError}, "ERROR"},
		{FileStatus{Tag: StatusNew}, "NEW"},
	}
	for _, tc := range tests {
		if got := tc.status.SocketString(); got != tc.want {
			t.Fatalf("SocketString(%+v)=%q want %q", tc.status, got, tc.want)
		}
	}
	if got := ParseFileStatus("ok+swm"); got != (FileStatus{Tag: StatusUpToDate, Shared: true}) {
		t.Fatalf("unexpected parse %+v", got)
	}
}

func TestRecordPermissions(t *testing.T) {
	if !(Record{Valid: true}).CanReshare() {
		t.Fatal("unknown permissions should allow resharing")
	}
	if (Record{Valid: true, RemotePerm: "WDNV"}).CanReshare() {
		t.Fatal("missing R should forbid resharing")
	}
	if !(Record{E2EMangledName: "abc"}).IsE2E() {
		t.Fatal("mangled name marks e2e path")
	}
}

func TestFolderCanSync(t *testing.T) {
	if (Folder{Paused: true}).CanSync() {
		t.Fatal("paused folder cannot sync")
	}
	if (Folder{Status: FolderSetupError}).CanSync() {
		t.Fatal("setup error folder cannot sync")
	}
	if !(Folder{Status: FolderSuccess}).CanSync() {
		t.Fatal("healthy folder can sync")
	}
}

func TestFolderRelativeAndAccountPaths(t *testing.T) {
	folder := Folder{Path: "/home/u/Cloud", RemotePath: "/"}
	tests := []struct {
		local   string
		rel     string
		ok      bool
		account string
	}{
		{"/home/u/Cloud", "", true, "/"},
		{"/home/u/Cloud/a.txt", "a.txt", true, "/a.txt"},
		{"/home/u/Cloud/sub/b.txt", "sub/b.txt", true, "/sub/b.txt"},
		{"/home/u/CloudOther/x", "", false, ""},
		{"/elsewhere", "", false, ""},
	}
	for _, tc := range tests {
		rel, ok := folder.RelativePath(tc.local)
		if rel != tc.rel || ok != tc.ok {
			t.Fatalf("RelativePath(%q)=(%q,%v) want (%q,%v)", tc.local, rel, ok, tc.rel, tc.ok)
		}
		if ok {
			if got := folder.AccountPath(rel); got != tc.account {
				t.Fatalf("AccountPath(%q)=%q want %q", rel, got, tc.account)
			}
		}
	}

	nested := Folder{Path: "/data", RemotePath: "/Photos"}
	if got := nested.AccountPath(""); got != "/Photos" {
		t.Fatalf("root of nested folder maps to %q", got)
	}
}
