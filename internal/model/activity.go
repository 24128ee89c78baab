package model

import "fmt"

// Activity はキャンプで提供されるアクティビティを表す。
// name と difficulty には形式上の制約はない。
type Activity struct {
	id         int64
	Name       string
	Difficulty int

	// Signups はアクティビティへの申込一覧。リポジトリが必要に応じてロードする。
	Signups []*Signup
}

// ActivityFields はActivityの作成・部分更新で受け付けるフィールドの許可リスト。
type ActivityFields struct {
	Name       Optional[string] `json:"name"`
	Difficulty Optional[int]    `json:"difficulty"`
}

// NewActivity は新しいActivityを生成する。
func NewActivity(name string, difficulty int) *Activity {
	return &Activity{Name: name, Difficulty: difficulty}
}

// NewActivityFromFields はリクエストのフィールドからActivityを生成する。
// 未指定のフィールドはゼロ値となる。
func NewActivityFromFields(f ActivityFields) *Activity {
	a := &Activity{}
	a.Apply(f)
	return a
}

// LoadActivity は永続化済みの行からActivityを復元する。
func LoadActivity(id int64, name string, difficulty int) *Activity {
	return &Activity{id: id, Name: name, Difficulty: difficulty}
}

// ID はActivityのIDを返す。未永続化の場合は0。
func (a *Activity) ID() int64 { return a.id }

// AssignID は永続化時に採番されたIDを設定する。IDの再割り当てはできない。
func (a *Activity) AssignID(id int64) error {
	if a.id != 0 {
		return fmt.Errorf("activity already has id %d", a.id)
	}
	a.id = id
	return nil
}

// Apply は指定されたフィールドだけを上書きする。nullはゼロ値として扱う。
func (a *Activity) Apply(f ActivityFields) {
	if f.Name.Present {
		a.Name = f.Name.Value
	}
	if f.Difficulty.Present {
		a.Difficulty = f.Difficulty.Value
	}
}

func (a *Activity) attributes() []attribute {
	return []attribute{
		{"id", a.id},
		{"name", a.Name},
		{"difficulty", a.Difficulty},
	}
}

func (a *Activity) relations() []relation {
	return []relation{
		{name: "signups", many: signupRecords(a.Signups), isMany: true},
	}
}

func (a *Activity) serializeRules() []string {
	return []string{"-signups.activity"}
}

// String はログ出力用の表現を返す。
func (a *Activity) String() string {
	return fmt.Sprintf("<Activity %d: %s>", a.id, a.Name)
}
