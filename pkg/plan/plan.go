package plan

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// FilePlan 单个文件的整理计划，创建后不再修改
type FilePlan struct {
	Source      string
	Destination string
	Category    string
	Theme       string
	IsDuplicate bool
	DuplicateOf string
}

// Report 一次运行产生的完整计划
type Report struct {
	Root  string
	Files []FilePlan
}

// CategoryCount 分类统计项
type CategoryCount struct {
	Category string
	Count    int
}

// Summary 按分类名升序返回每个分类的文件数
func (r *Report) Summary() []CategoryCount {
	counts := make(map[string]int)
	for _, f := range r.Files {
		counts[f.Category]++
	}

	summary := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		summary = append(summary, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Category < summary[j].Category
	})
	return summary
}

// Duplicates 返回重复文件数量
func (r *Report) Duplicates() int {
	n := 0
	for _, f := range r.Files {
		if f.IsDuplicate {
			n++
		}
	}
	return n
}

// Collisions 返回被多个非重复文件共用的目标路径
func (r *Report) Collisions() map[string][]string {
	sources := make(map[string][]string)
	for _, f := range r.Files {
		if f.IsDuplicate {
			continue
		}
		sources[f.Destination] = append(sources[f.Destination], f.Source)
	}
	for destination, list := range sources {
		if len(list) < 2 {
			delete(sources, destination)
		}
	}
	return sources
}

type fileDocument struct {
	Source      string  `json:"source" yaml:"source"`
	Destination string  `json:"destination" yaml:"destination"`
	Category    string  `json:"category" yaml:"category"`
	Theme       *string `json:"theme" yaml:"theme"`
	Duplicate   bool    `json:"duplicate" yaml:"duplicate"`
	DuplicateOf *string `json:"duplicate_of" yaml:"duplicate_of"`
}

type reportDocument struct {
	Root  string         `json:"root" yaml:"root"`
	Files []fileDocument `json:"files" yaml:"files"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *Report) document() reportDocument {
	doc := reportDocument{Root: r.Root, Files: make([]fileDocument, 0, len(r.Files))}
	for _, f := range r.Files {
		doc.Files = append(doc.Files, fileDocument{
			Source:      f.Source,
			Destination: f.Destination,
			Category:    f.Category,
			Theme:       optional(f.Theme),
			Duplicate:   f.IsDuplicate,
			DuplicateOf: optional(f.DuplicateOf),
		})
	}
	return doc
}

func fromDocument(doc reportDocument) *Report {
	r := &Report{Root: doc.Root, Files: make([]FilePlan, 0, len(doc.Files))}
	for _, f := range doc.Files {
		r.Files = append(r.Files, FilePlan{
			Source:      f.Source,
			Destination: f.Destination,
			Category:    f.Category,
			Theme:       value(f.Theme),
			IsDuplicate: f.Duplicate,
			DuplicateOf: value(f.DuplicateOf),
		})
	}
	return r
}

// MarshalJSON 输出 root/files 结构，theme 和 duplicate_of 为空时输出 null
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.document())
}

func (r *Report) UnmarshalJSON(data []byte) error {
	var doc reportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*r = *fromDocument(doc)
	return nil
}

// JSON 返回缩进两个空格的 JSON 文本
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r.document(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("序列化计划失败: %w", err)
	}
	return string(data), nil
}

// YAML 使用与 JSON 相同的字段名
func (r *Report) YAML() (string, error) {
	data, err := yaml.Marshal(r.document())
	if err != nil {
		return "", fmt.Errorf("序列化计划失败: %w", err)
	}
	return string(data), nil
}

// ParseJSON 解析 JSON 计划
func ParseJSON(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("解析计划失败: %w", err)
	}
	return &r, nil
}

// ParseYAML 解析 YAML 计划
func ParseYAML(data []byte) (*Report, error) {
	var doc reportDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("解析计划失败: %w", err)
	}
	return fromDocument(doc), nil
}
