package cli

import "testing"

func TestLogConfigScan(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{
			name:       "none",
			args:       []string{"run", "x.ml"},
			wantPretty: true,
		},
		{
			name:       "assigned",
			args:       []string{"--log-level=debug", "--log-format=json"},
			wantLevel:  "debug",
			wantFormat: "json",
			wantPretty: true,
		},
		{
			name:       "separate value",
			args:       []string{"run", "--log-level", "trace", "x.ml"},
			wantLevel:  "trace",
			wantPretty: true,
		},
		{
			name:       "booleans",
			args:       []string{"--no-log-pretty", "--log-caller"},
			wantPretty: false,
			wantCaller: true,
		},
		{
			name:       "assigned booleans",
			args:       []string{"--log-pretty=false", "--no-log-caller=false"},
			wantPretty: false,
			wantCaller: true,
		},
		{
			name:       "invalid boolean",
			args:       []string{"--log-pretty=maybe"},
			wantPretty: true,
		},
		{
			name:       "after terminator",
			args:       []string{"--", "--log-level=error"},
			wantPretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel || f.Format != tt.wantFormat ||
				f.Pretty != tt.wantPretty || f.Caller != tt.wantCaller {
				t.Errorf("scan(%q) = %+v", tt.args, f)
			}
		})
	}
}
