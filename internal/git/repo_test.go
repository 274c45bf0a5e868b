package git

import "testing"

func TestValidateRepositoryFormat(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		wantErr bool
	}{
		{name: "simple", repo: "owner/repo"},
		{name: "with dots", repo: "owner.io/my.repo"},
		{name: "no slash", repo: "ownerrepo", wantErr: true},
		{name: "empty", repo: "", wantErr: true},
		{name: "trailing slash", repo: "owner/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepositoryFormat(tt.repo)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepositoryFormat(%q) error = %v, wantErr %v", tt.repo, err, tt.wantErr)
			}
		})
	}
}

func TestSplitRepository(t *testing.T) {
	owner, name, err := SplitRepository("octocat/Hello-World")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner != "octocat" || name != "Hello-World" {
		t.Errorf("got %q/%q", owner, name)
	}

	if _, _, err := SplitRepository("owner/repo/extra"); err == nil {
		t.Error("expected error for three-part repository")
	}
}
