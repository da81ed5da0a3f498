package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "access",
			objectType:  "decision",
			identifier:  "user123",
			paramsKey:   nil,
			expectedKey: "prepdeck:access:decision:user123",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "access",
			objectType:  "decision",
			identifier:  "user123",
			paramsKey:   []string{},
			expectedKey: "prepdeck:access:decision:user123",
		},
		{
			name:        "with one paramsKey",
			serviceName: "exam",
			objectType:  "settings",
			identifier:  "neet-pg",
			paramsKey:   []string{"demo"},
			expectedKey: "prepdeck:exam:settings:neet-pg:demo",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "access",
			objectType:  "decision",
			identifier:  "user123",
			paramsKey:   []string{"exam1", "chapter2"},
			expectedKey: "prepdeck:access:decision:user123:exam1_chapter2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}
