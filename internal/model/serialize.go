package model

import "strings"

// record はシリアライズ可能なエンティティ。
// 各エンティティはスカラー属性、関連、除外ルールを宣言する。
type record interface {
	attributes() []attribute
	relations() []relation
	serializeRules() []string
}

type attribute struct {
	name  string
	value any
}

// relation は関連エッジ。isManyがtrueの場合はmany、falseの場合はoneを参照する。
type relation struct {
	name   string
	one    record
	many   []record
	isMany bool
}

// Exclusions はシリアライズ時に辿らないエッジのドット区切りパス集合。
// 例: "signups.activity" はルートの signups 配下の activity を除外する。
type Exclusions map[string]struct{}

// Rules は "-signups" や "-signups.camper" 形式のルールからExclusionsを生成する。
func Rules(rules ...string) Exclusions {
	ex := make(Exclusions, len(rules))
	for _, r := range rules {
		path := strings.TrimPrefix(strings.TrimSpace(r), "-")
		if path != "" {
			ex[path] = struct{}{}
		}
	}
	return ex
}

// Excludes はエッジ名が現在のノードで除外されているかを返す。
func (e Exclusions) Excludes(name string) bool {
	_, ok := e[name]
	return ok
}

// Descend は子ノード name に入る際に引き継ぐ除外パスを返す。
// "name.x.y" は子ノードでは "x.y" として残る。
func (e Exclusions) Descend(name string) Exclusions {
	prefix := name + "."
	child := make(Exclusions)
	for path := range e {
		if rest, ok := strings.CutPrefix(path, prefix); ok && rest != "" {
			child[rest] = struct{}{}
		}
	}
	return child
}

func (e Exclusions) merge(other Exclusions) Exclusions {
	out := make(Exclusions, len(e)+len(other))
	for k := range e {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Serializable はSerializeに渡せるエンティティ（*Activity, *Camper, *Signup）。
type Serializable interface {
	record
}

// Serialize はエンティティを関連込みの属性マップに変換する。
// ルートのエンティティ固有ルールにextraの除外ルールを加えて適用し、
// 子ノードでは祖先から引き継いだ除外と子自身のルールの両方を適用する。
// 現在の走査経路上にすでに存在するレコードには再突入しない。
func Serialize(r Serializable, extra ...string) map[string]any {
	return serialize(r, Rules(extra...), nil)
}

// SerializeAll は複数のエンティティを同じルールでシリアライズする。
func SerializeAll[T Serializable](rs []T, extra ...string) []map[string]any {
	out := make([]map[string]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, Serialize(r, extra...))
	}
	return out
}

func serialize(r record, inherited Exclusions, path []record) map[string]any {
	active := inherited.merge(Rules(r.serializeRules()...))
	path = append(path, r)

	out := make(map[string]any)
	for _, a := range r.attributes() {
		if active.Excludes(a.name) {
			continue
		}
		out[a.name] = a.value
	}

	for _, rel := range r.relations() {
		if active.Excludes(rel.name) {
			continue
		}
		child := active.Descend(rel.name)
		if rel.isMany {
			items := make([]map[string]any, 0, len(rel.many))
			for _, m := range rel.many {
				if onPath(path, m) {
					continue
				}
				items = append(items, serialize(m, child, path))
			}
			out[rel.name] = items
			continue
		}
		if rel.one == nil || onPath(path, rel.one) {
			out[rel.name] = nil
			continue
		}
		out[rel.name] = serialize(rel.one, child, path)
	}
	return out
}

func onPath(path []record, r record) bool {
	for _, p := range path {
		if p == r {
			return true
		}
	}
	return false
}
