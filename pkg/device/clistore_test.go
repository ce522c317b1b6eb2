package device

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeExecutor returns canned output per command and records what was run.
type fakeExecutor struct {
	outputs map[string]string
	errs    map[string]error
	ran     []string
}

func (f *fakeExecutor) ExecCommandContext(_ context.Context, cmd string) (string, error) {
	f.ran = append(f.ran, cmd)
	if err, ok := f.errs[cmd]; ok {
		return "", err
	}
	return f.outputs[cmd], nil
}

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "PORT_TABLE:Ethernet0\n", []string{"PORT_TABLE:Ethernet0"}},
		{"multiple", "PORT_TABLE:Ethernet0\nPORT_TABLE:Ethernet4\n", []string{"PORT_TABLE:Ethernet0", "PORT_TABLE:Ethernet4"}},
		{"crlf and blanks", "PORT_TABLE:Ethernet0\r\n\r\nPORT_TABLE:Ethernet8\r\n", []string{"PORT_TABLE:Ethernet0", "PORT_TABLE:Ethernet8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKeys(tt.out)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeys(%q) = %v, want %v", tt.out, got, tt.want)
			}
		})
	}
}

func TestParseHash(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{
			"pairs",
			"admin_status\nup\noper_status\nup\nlanes\n0,1\nspeed\n50000\n",
			map[string]string{"admin_status": "up", "oper_status": "up", "lanes": "0,1", "speed": "50000"},
		},
		{
			"empty value",
			"alias\n\nspeed\n10000\n",
			map[string]string{"alias": "", "speed": "10000"},
		},
		{
			"dangling field",
			"speed\n10000\nmtu",
			map[string]string{"speed": "10000"},
		},
		{
			"crlf",
			"speed\r\n40000\r\n",
			map[string]string{"speed": "40000"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHash(tt.out)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHash(%q) = %v, want %v", tt.out, got, tt.want)
			}
		})
	}
}

func TestCLIStore_ListKeys(t *testing.T) {
	exec := &fakeExecutor{outputs: map[string]string{
		"redis-cli -n 0 KEYS '*PORT*'": "PORT_TABLE:Ethernet0\nPORT_TABLE:Ethernet4\n",
	}}
	store := NewCLIStore(exec)

	keys, err := store.ListKeys(context.Background(), 0, "*PORT*")
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	want := []string{"PORT_TABLE:Ethernet0", "PORT_TABLE:Ethernet4"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestCLIStore_ReadHash(t *testing.T) {
	exec := &fakeExecutor{outputs: map[string]string{
		"redis-cli -n 0 HGETALL 'PORT_TABLE:Ethernet0'": "oper_status\nup\nspeed\n50000\n",
		"redis-cli -n 0 HGETALL 'PORT_TABLE_KEY_SET'":   "WRONGTYPE Operation against a key holding the wrong kind of value\n",
		"redis-cli -n 0 HGETALL 'BROKEN'":               "(error) ERR unknown command\n",
	}}
	store := NewCLIStore(exec)
	ctx := context.Background()

	vals, err := store.ReadHash(ctx, 0, "PORT_TABLE:Ethernet0")
	if err != nil {
		t.Fatalf("ReadHash: %v", err)
	}
	if vals["speed"] != "50000" || vals["oper_status"] != "up" {
		t.Errorf("vals = %v", vals)
	}

	vals, err = store.ReadHash(ctx, 0, "PORT_TABLE_KEY_SET")
	if err != nil {
		t.Fatalf("WRONGTYPE should not be an error: %v", err)
	}
	if len(vals) != 0 {
		t.Errorf("WRONGTYPE vals = %v, want empty", vals)
	}

	if _, err := store.ReadHash(ctx, 0, "BROKEN"); err == nil {
		t.Error("expected error for ERR reply")
	}
}

func TestCLIStore_ExecError(t *testing.T) {
	boom := errors.New("connection reset")
	exec := &fakeExecutor{errs: map[string]error{
		"redis-cli -n 0 KEYS '*PORT*'": boom,
	}}
	store := NewCLIStore(exec)

	if _, err := store.ListKeys(context.Background(), 0, "*PORT*"); !errors.Is(err, boom) {
		t.Errorf("ListKeys error = %v, want %v", err, boom)
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"*PORT*", "'*PORT*'"},
		{"PORT_TABLE:Ethernet0", "'PORT_TABLE:Ethernet0'"},
		{"it's", `'it'\''s'`},
	}
	for _, tt := range tests {
		if got := shellQuote(tt.in); got != tt.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
