package types

import (
	"testing"
)

func TestBackupValidate(t *testing.T) {
	tests := []struct {
		name    string
		backup  *Backup
		wantErr error
	}{
		{"valid", &Backup{Version: BackupVersion, Data: &BackupData{}}, nil},
		{"nil envelope", nil, ErrInvalidBackup},
		{"zero version", &Backup{Data: &BackupData{}}, ErrInvalidBackup},
		{"missing data", &Backup{Version: BackupVersion}, ErrInvalidBackup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.backup.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
