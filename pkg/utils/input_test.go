package utils

import (
	"slices"
	"testing"
)

func TestPointerTrackerDiff(t *testing.T) {
	pt := NewPointerTracker()

	tests := []struct {
		name string
		cur  map[int]PointerPos
		want []PointerEvent
	}{
		{
			name: "鼠标按下",
			cur:  map[int]PointerPos{MouseID: {10, 20}},
			want: []PointerEvent{{Kind: PointerPressed, ID: MouseID, X: 10, Y: 20}},
		},
		{
			name: "位置不变没有事件",
			cur:  map[int]PointerPos{MouseID: {10, 20}},
			want: nil,
		},
		{
			name: "鼠标移动且新增触摸",
			cur:  map[int]PointerPos{MouseID: {15, 20}, 3: {100, 100}},
			want: []PointerEvent{
				{Kind: PointerPressed, ID: 3, X: 100, Y: 100},
				{Kind: PointerMoved, ID: MouseID, X: 15, Y: 20},
			},
		},
		{
			name: "释放使用最后位置",
			cur:  map[int]PointerPos{},
			want: []PointerEvent{
				{Kind: PointerReleased, ID: MouseID, X: 15, Y: 20},
				{Kind: PointerReleased, ID: 3, X: 100, Y: 100},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pt.Diff(tt.cur)
			if len(got) != len(tt.want) || (len(got) > 0 && !slices.Equal(got, tt.want)) {
				t.Errorf("Diff() = %+v, want %+v", got, tt.want)
			}
		})
	}
	if pt.Active() != 0 {
		t.Errorf("Active() = %d, want 0", pt.Active())
	}
}

// TestPointerTrackerConsume 被吞掉的指针按住期间没有事件，松开再按才产生新的按下
func TestPointerTrackerConsume(t *testing.T) {
	pt := NewPointerTracker()
	pt.Diff(map[int]PointerPos{1: {1, 1}, 2: {2, 2}})
	if pt.Active() != 2 {
		t.Fatalf("Active() = %d, want 2", pt.Active())
	}
	pt.Consume()
	if pt.Active() != 0 {
		t.Errorf("Active() after Consume = %d, want 0", pt.Active())
	}

	frames := []struct {
		name string
		cur  map[int]PointerPos
		want []PointerEvent
	}{
		{"继续按住", map[int]PointerPos{1: {1, 1}, 2: {2, 2}}, nil},
		{"按住移动", map[int]PointerPos{1: {5, 5}, 2: {2, 2}}, nil},
		{"松开一个", map[int]PointerPos{2: {2, 2}}, nil},
		{
			name: "重新按下",
			cur:  map[int]PointerPos{1: {9, 9}, 2: {2, 2}},
			want: []PointerEvent{{Kind: PointerPressed, ID: 1, X: 9, Y: 9}},
		},
		{
			name: "全部松开",
			cur:  map[int]PointerPos{},
			want: []PointerEvent{{Kind: PointerReleased, ID: 1, X: 9, Y: 9}},
		},
	}
	for _, f := range frames {
		got := pt.Diff(f.cur)
		if len(got) != len(f.want) || (len(got) > 0 && !slices.Equal(got, f.want)) {
			t.Errorf("%s: Diff() = %+v, want %+v", f.name, got, f.want)
		}
	}
	if pt.Active() != 0 {
		t.Errorf("Active() = %d, want 0", pt.Active())
	}
}

func TestPointerEventKindString(t *testing.T) {
	for k, want := range map[PointerEventKind]string{
		PointerPressed:  "pressed",
		PointerMoved:    "moved",
		PointerReleased: "released",
		9:               "unknown",
	} {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(k), k.String(), want)
		}
	}
}
