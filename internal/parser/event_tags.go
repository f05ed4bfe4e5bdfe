package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Ключевые слова, которые дают метку без года и завершают поиск
var yearlessKeywords = map[string]bool{
	"COP":        true,
	"Expedition": true,
}

const gbgKeyword = "GBG"

type keywordLabel struct {
	keyword string
	label   string
}

// EventTagger выводит метку события из id здания
type EventTagger struct {
	keywords   []keywordLabel
	exceptions map[string]string
}

// NewEventTagger строит теггер из двух JSON-объектов: ключевое слово -> метка
// и id здания -> явная метка. Пустой ввод допустим.
func NewEventTagger(keywordsJSON, exceptionsJSON []byte) (*EventTagger, error) {
	t := &EventTagger{exceptions: make(map[string]string)}

	keywords, err := parseObject("event tags", keywordsJSON)
	if err != nil {
		return nil, err
	}
	keywords.ForEach(func(key, value gjson.Result) bool {
		t.keywords = append(t.keywords, keywordLabel{keyword: key.String(), label: value.String()})
		return true
	})

	exceptions, err := parseObject("tag exceptions", exceptionsJSON)
	if err != nil {
		return nil, err
	}
	exceptions.ForEach(func(key, value gjson.Result) bool {
		t.exceptions[key.String()] = value.String()
		return true
	})

	return t, nil
}

func parseObject(name string, data []byte) (gjson.Result, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s: invalid JSON", name)
	}
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return gjson.Result{}, fmt.Errorf("%s: expected JSON object", name)
	}
	return obj, nil
}

// Tag возвращает метку события. Явное исключение важнее ключевых слов;
// из совпавших ключевых слов побеждает последнее, кроме COP и Expedition,
// которые останавливают поиск. Без совпадений меткой служит сам id.
func (t *EventTagger) Tag(id string) string {
	if t == nil {
		return id
	}
	if tag, ok := t.exceptions[id]; ok {
		return tag
	}

	tag := ""
	for _, kw := range t.keywords {
		if !strings.Contains(id, kw.keyword) {
			continue
		}
		if yearlessKeywords[kw.keyword] {
			tag = kw.label
			break
		}
		from := 18
		if kw.keyword == gbgKeyword {
			from = 23
		}
		if year, ok := findYear(id, from, 30); ok {
			tag = kw.label + " 20" + year
		}
	}
	if tag == "" {
		return id
	}
	return tag
}

// findYear - первый двузначный год из диапазона, встречающийся в id
func findYear(id string, from, to int) (string, bool) {
	for y := from; y <= to; y++ {
		s := strconv.Itoa(y)
		if strings.Contains(id, s) {
			return s, true
		}
	}
	return "", false
}
