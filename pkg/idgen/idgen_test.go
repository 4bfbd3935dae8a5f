package idgen

import (
	"testing"
)

func TestPublicIDRoundTrip(t *testing.T) {
	if err := InitSqidsEncoderWithSeed("e3b0c44298fc1c149afbf4c8996fb924"); err != nil {
		t.Fatalf("初始化编码器失败: %v", err)
	}

	tests := []struct {
		name       string
		dbID       uint
		entityType uint64
	}{
		{"用户ID", 1, EntityTypeUser},
		{"评论ID", 42, EntityTypeComment},
		{"帖子ID", 100000, EntityTypePost},
		{"通知ID", 7, EntityTypeNotification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publicID, err := GeneratePublicID(tt.dbID, tt.entityType)
			if err != nil {
				t.Fatalf("编码失败: %v", err)
			}
			if len(publicID) < 4 {
				t.Errorf("公共ID长度不足: %q", publicID)
			}

			dbID, entityType, err := DecodePublicID(publicID)
			if err != nil {
				t.Fatalf("解码失败: %v", err)
			}
			if dbID != tt.dbID || entityType != tt.entityType {
				t.Errorf("往返不一致: 得到 (%d, %d), 期望 (%d, %d)", dbID, entityType, tt.dbID, tt.entityType)
			}
		})
	}
}

// 相同种子必须产出相同的公共ID，否则重启后历史链接全部失效。
func TestSeedDeterminism(t *testing.T) {
	seed := "1f2e3d4c5b6a79880123456789abcdef"

	if err := InitSqidsEncoderWithSeed(seed); err != nil {
		t.Fatalf("初始化编码器失败: %v", err)
	}
	first, err := GeneratePublicID(123, EntityTypeComment)
	if err != nil {
		t.Fatalf("编码失败: %v", err)
	}

	if err := InitSqidsEncoderWithSeed(seed); err != nil {
		t.Fatalf("再次初始化编码器失败: %v", err)
	}
	second, err := GeneratePublicID(123, EntityTypeComment)
	if err != nil {
		t.Fatalf("再次编码失败: %v", err)
	}

	if first != second {
		t.Errorf("相同种子产出不同ID: %q != %q", first, second)
	}
}

func TestDifferentSeedsProduceDifferentAlphabets(t *testing.T) {
	a := shuffleAlphabet("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	b := shuffleAlphabet("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	if a == b {
		t.Error("不同种子打乱出了相同的字母表")
	}
	if len(a) != len(DefaultAlphabet) {
		t.Errorf("打乱后的字母表长度变化: %d != %d", len(a), len(DefaultAlphabet))
	}
}

func TestDecodePublicIDBatch(t *testing.T) {
	if err := InitSqidsEncoderWithSeed(""); err != nil {
		t.Fatalf("初始化编码器失败: %v", err)
	}

	want := []uint{1, 2, 3}
	publicIDs := make([]string, len(want))
	for i, id := range want {
		pid, err := GeneratePublicID(id, EntityTypeComment)
		if err != nil {
			t.Fatalf("编码失败: %v", err)
		}
		publicIDs[i] = pid
	}

	got, err := DecodePublicIDBatch(publicIDs)
	if err != nil {
		t.Fatalf("批量解码失败: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("第 %d 个ID解码不一致: %d != %d", i, got[i], want[i])
		}
	}

	if _, err := DecodePublicIDBatch([]string{"!!!"}); err == nil {
		t.Error("无效公共ID批量解码未报错")
	}

	if got, err := DecodePublicIDBatch(nil); err != nil || got != nil {
		t.Errorf("nil 输入应原样返回, 得到 (%v, %v)", got, err)
	}
}
