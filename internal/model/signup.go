package model

import "fmt"

// Signup は参加者とアクティビティの申込を表す。
// time は代入時に0〜23の範囲で検証される。
type Signup struct {
	id         int64
	time       int
	activityID int64
	camperID   int64

	// Activity と Camper は所属先。リポジトリが必要に応じてロードする。
	Activity *Activity
	Camper   *Camper
}

// SignupFields はSignupの作成・部分更新で受け付けるフィールドの許可リスト。
type SignupFields struct {
	Time       Optional[int]   `json:"time"`
	ActivityID Optional[int64] `json:"activity_id"`
	CamperID   Optional[int64] `json:"camper_id"`
}

// Missing は作成時に必須のキーのうち、未指定のものを返す。
func (f SignupFields) Missing() []string {
	var missing []string
	if !f.CamperID.Present {
		missing = append(missing, "camper_id")
	}
	if !f.ActivityID.Present {
		missing = append(missing, "activity_id")
	}
	if !f.Time.Present {
		missing = append(missing, "time")
	}
	return missing
}

// NewSignup は検証済みの新しいSignupを生成する。
func NewSignup(camperID, activityID int64, time int) (*Signup, error) {
	s := &Signup{}
	if err := collect(s.SetCamperID(camperID), s.SetActivityID(activityID), s.SetTime(time)); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSignupFromFields はリクエストのフィールドからSignupを生成する。
// nullが指定されたフィールドは必須違反となる。
func NewSignupFromFields(f SignupFields) (*Signup, error) {
	s := &Signup{}
	err := collect(
		setRequired(f.CamperID, ruleSignupCamperID, s.SetCamperID),
		setRequired(f.ActivityID, ruleSignupActivityID, s.SetActivityID),
		setRequired(f.Time, ruleSignupTime, s.SetTime),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSignup は永続化済みの行からSignupを復元する。復元時も検証を行う。
func LoadSignup(id, camperID, activityID int64, time int) (*Signup, error) {
	s, err := NewSignup(camperID, activityID, time)
	if err != nil {
		return nil, fmt.Errorf("stored signup %d is invalid: %w", id, err)
	}
	s.id = id
	return s, nil
}

// ID はSignupのIDを返す。未永続化の場合は0。
func (s *Signup) ID() int64 { return s.id }

// Time は申込時刻（時）を返す。
func (s *Signup) Time() int { return s.time }

// ActivityID は申込先アクティビティのIDを返す。
func (s *Signup) ActivityID() int64 { return s.activityID }

// CamperID は申込者のIDを返す。
func (s *Signup) CamperID() int64 { return s.camperID }

// AssignID は永続化時に採番されたIDを設定する。IDの再割り当てはできない。
func (s *Signup) AssignID(id int64) error {
	if s.id != 0 {
		return fmt.Errorf("signup already has id %d", s.id)
	}
	s.id = id
	return nil
}

// SetTime は0〜23の範囲の時刻を設定する。
func (s *Signup) SetTime(time int) error {
	if err := ruleSignupTime.check(time); err != nil {
		return err
	}
	s.time = time
	return nil
}

// SetActivityID は申込先アクティビティを設定する。ロード済みのActivityは破棄する。
func (s *Signup) SetActivityID(id int64) error {
	if err := ruleSignupActivityID.check(id); err != nil {
		return err
	}
	if s.activityID != id {
		s.Activity = nil
	}
	s.activityID = id
	return nil
}

// SetCamperID は申込者を設定する。ロード済みのCamperは破棄する。
func (s *Signup) SetCamperID(id int64) error {
	if err := ruleSignupCamperID.check(id); err != nil {
		return err
	}
	if s.camperID != id {
		s.Camper = nil
	}
	s.camperID = id
	return nil
}

// Apply は指定されたフィールドだけを上書きする。
// いずれかのフィールドが不正な場合はSignupを一切変更せずにエラーを返す。
func (s *Signup) Apply(f SignupFields) error {
	next := *s
	var errs []error
	if f.Time.Present {
		errs = append(errs, setRequired(f.Time, ruleSignupTime, next.SetTime))
	}
	if f.ActivityID.Present {
		errs = append(errs, setRequired(f.ActivityID, ruleSignupActivityID, next.SetActivityID))
	}
	if f.CamperID.Present {
		errs = append(errs, setRequired(f.CamperID, ruleSignupCamperID, next.SetCamperID))
	}
	if err := collect(errs...); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *Signup) attributes() []attribute {
	return []attribute{
		{"id", s.id},
		{"time", s.time},
		{"activity_id", s.activityID},
		{"camper_id", s.camperID},
	}
}

func (s *Signup) relations() []relation {
	rels := []relation{{name: "activity"}, {name: "camper"}}
	if s.Activity != nil {
		rels[0].one = s.Activity
	}
	if s.Camper != nil {
		rels[1].one = s.Camper
	}
	return rels
}

func (s *Signup) serializeRules() []string {
	return []string{"-activity.signups", "-camper.signups"}
}

// String はログ出力用の表現を返す。
func (s *Signup) String() string {
	return fmt.Sprintf("<Signup %d>", s.id)
}

// setRequired はnullを必須違反として扱い、値があればsetterに渡す。
func setRequired[T any](o Optional[T], rule fieldRule, set func(T) error) error {
	if !o.Valid {
		return rule.required()
	}
	return set(o.Value)
}

func signupRecords(signups []*Signup) []record {
	out := make([]record, 0, len(signups))
	for _, s := range signups {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
