package model

import "fmt"

// Camper はキャンプ参加者を表す。
// name と age は代入時に検証されるため、不正な値を保持したCamperは構築できない。
type Camper struct {
	id   int64
	name string
	age  int

	// Signups は参加者の申込一覧。リポジトリが必要に応じてロードする。
	Signups []*Signup
}

// CamperFields はCamperの作成・部分更新で受け付けるフィールドの許可リスト。
type CamperFields struct {
	Name Optional[string] `json:"name"`
	Age  Optional[int]    `json:"age"`
}

// NewCamper は検証済みの新しいCamperを生成する。IDは永続化時に割り当てられる。
func NewCamper(name string, age int) (*Camper, error) {
	c := &Camper{}
	if err := collect(c.SetName(name), c.SetAge(age)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewCamperFromFields はリクエストのフィールドからCamperを生成する。
// 未指定またはnullのフィールドは必須違反となる。
func NewCamperFromFields(f CamperFields) (*Camper, error) {
	c := &Camper{}
	var nameErr, ageErr error
	if f.Name.Valid {
		nameErr = c.SetName(f.Name.Value)
	} else {
		nameErr = ruleCamperName.required()
	}
	if f.Age.Valid {
		ageErr = c.SetAge(f.Age.Value)
	} else {
		ageErr = ruleCamperAge.required()
	}
	if err := collect(nameErr, ageErr); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCamper は永続化済みの行からCamperを復元する。復元時も検証を行う。
func LoadCamper(id int64, name string, age int) (*Camper, error) {
	c, err := NewCamper(name, age)
	if err != nil {
		return nil, fmt.Errorf("stored camper %d is invalid: %w", id, err)
	}
	c.id = id
	return c, nil
}

// ID はCamperのIDを返す。未永続化の場合は0。
func (c *Camper) ID() int64 { return c.id }

// Name は参加者名を返す。
func (c *Camper) Name() string { return c.name }

// Age は参加者の年齢を返す。
func (c *Camper) Age() int { return c.age }

// AssignID は永続化時に採番されたIDを設定する。IDの再割り当てはできない。
func (c *Camper) AssignID(id int64) error {
	if c.id != 0 {
		return fmt.Errorf("camper already has id %d", c.id)
	}
	c.id = id
	return nil
}

// SetName は空でない参加者名を設定する。
func (c *Camper) SetName(name string) error {
	if err := ruleCamperName.check(name); err != nil {
		return err
	}
	c.name = name
	return nil
}

// SetAge は8〜18の範囲の年齢を設定する。
func (c *Camper) SetAge(age int) error {
	if err := ruleCamperAge.check(age); err != nil {
		return err
	}
	c.age = age
	return nil
}

// Apply は指定されたフィールドだけを上書きする。
// いずれかのフィールドが不正な場合はCamperを一切変更せずにエラーを返す。
func (c *Camper) Apply(f CamperFields) error {
	next := *c
	var errs []error
	if f.Name.Present {
		if f.Name.Valid {
			errs = append(errs, next.SetName(f.Name.Value))
		} else {
			errs = append(errs, ruleCamperName.required())
		}
	}
	if f.Age.Present {
		if f.Age.Valid {
			errs = append(errs, next.SetAge(f.Age.Value))
		} else {
			errs = append(errs, ruleCamperAge.required())
		}
	}
	if err := collect(errs...); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *Camper) attributes() []attribute {
	return []attribute{
		{"id", c.id},
		{"name", c.name},
		{"age", c.age},
	}
}

func (c *Camper) relations() []relation {
	return []relation{
		{name: "signups", many: signupRecords(c.Signups), isMany: true},
	}
}

func (c *Camper) serializeRules() []string {
	return []string{"-signups.camper"}
}

// String はログ出力用の表現を返す。
func (c *Camper) String() string {
	return fmt.Sprintf("<Camper %d: %s>", c.id, c.name)
}
