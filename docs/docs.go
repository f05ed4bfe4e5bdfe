// Package docs - OpenAPI описание Building Analyzer API для /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "description": "Состояние сервиса и признак загруженного датасета",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/dataset": {
            "get": {
                "description": "Хеш, источник, время загрузки, число строк и отчёт разбора текущего датасета",
                "produces": ["application/json"],
                "tags": ["Dataset"],
                "summary": "Текущий датасет",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DatasetInfo"}}
                }
            }
        },
        "/api/v1/dataset/reload": {
            "post": {
                "description": "Синхронно загружает документ (по умолчанию из конфигурации). При ошибке текущий датасет сохраняется.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dataset"],
                "summary": "Перезагрузка датасета",
                "parameters": [
                    {"description": "Расположение документа: путь, http(s) URL или s3://bucket/key", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/dto.ReloadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DatasetInfo"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/eras": {
            "get": {
                "description": "Все эпохи по порядку: ключ, отображаемое имя и уровень",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Список эпох",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.EraInfo"}}}
                }
            }
        },
        "/api/v1/columns": {
            "get": {
                "description": "Колонки таблицы зданий и их группы",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Колонки таблицы",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ColumnsResponse"}}
                }
            }
        },
        "/api/v1/era-stats": {
            "get": {
                "description": "Минимум и максимум метрик по эпохам",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Статистика эпох",
                "parameters": [
                    {"type": "string", "description": "Ключ или отображаемое имя эпохи", "name": "era", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.EraStatsResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/weights/presets/ranking-points": {
            "get": {
                "description": "Веса, переводящие очки исследований и товары эпохи в очки рейтинга",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Пресет весов Ranking Points",
                "parameters": [
                    {"type": "string", "description": "Ключ или отображаемое имя эпохи", "name": "era", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WeightPresetResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/buildings": {
            "get": {
                "description": "Строки таблицы зданий с фильтром по эпохе, событию и подстроке имени, без оценки",
                "produces": ["application/json"],
                "tags": ["Analysis"],
                "summary": "Выборка зданий",
                "parameters": [
                    {"type": "string", "description": "Ключ или отображаемое имя эпохи", "name": "era", "in": "query"},
                    {"type": "string", "description": "Метка события", "name": "event", "in": "query"},
                    {"type": "string", "description": "Подстрока имени (без учёта регистра)", "name": "name", "in": "query"},
                    {"type": "integer", "description": "Максимальное количество строк", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/analysis": {
            "post": {
                "description": "Фильтр по эпохе, событиям и имени, расчёт Total Score и Weighted Efficiency (direct или legacy), расширенные фильтры, пересчёт на клетку, сортировка и лимит.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Analysis"],
                "summary": "Анализ зданий",
                "parameters": [
                    {"description": "Параметры анализа", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AnalysisRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AnalysisResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/analysis/export": {
            "post": {
                "description": "Выполняет анализ и отдаёт файл: CSV (разделитель \";\", UTF-8 BOM) или JSON записи",
                "consumes": ["application/json"],
                "produces": ["text/csv", "application/json"],
                "tags": ["Analysis"],
                "summary": "Выгрузка результата анализа",
                "parameters": [
                    {"type": "string", "default": "csv", "description": "csv или json", "name": "format", "in": "query"},
                    {"description": "Параметры анализа", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AnalysisRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/city/analyze": {
            "post": {
                "description": "Разбирает вставленный инвентарь или город, сопоставляет с таблицей зданий и считает итоги с учётом количества",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["City"],
                "summary": "Анализ города",
                "parameters": [
                    {"description": "Формат и вставленные данные", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CityAnalyzeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CityAnalyzeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.EraInfo": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "display_name": {"type": "string"},
                "level": {"type": "integer"}
            }
        },
        "domain.FilterSpec": {
            "type": "object",
            "required": ["column"],
            "properties": {
                "column": {"type": "string"},
                "operator": {"type": "string", "enum": ["between", "greater_than", "greater_equal", "less_than", "less_equal", "equal", "not_equal"]},
                "value1": {"type": "number"},
                "value2": {"type": "number"},
                "min": {"type": "number"},
                "max": {"type": "number"},
                "values": {"type": "array", "items": {"type": "string"}},
                "value": {"type": "string"},
                "operation": {"type": "string", "enum": ["isin", "contains", "equal"]},
                "exclude": {"type": "boolean"}
            }
        },
        "dto.AnalysisRequest": {
            "type": "object",
            "properties": {
                "era": {"type": "string"},
                "events": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string"},
                "mode": {"type": "string", "enum": ["direct", "legacy"]},
                "weights": {"type": "object", "additionalProperties": {"type": "number"}},
                "context": {"type": "object", "additionalProperties": true},
                "boosts": {"type": "object", "additionalProperties": true},
                "filters": {"type": "array", "items": {"$ref": "#/definitions/domain.FilterSpec"}},
                "filter_mode": {"type": "string", "enum": ["AND", "OR"]},
                "per_square": {"type": "boolean"},
                "sort_by": {"type": "string"},
                "ascending": {"type": "boolean"},
                "limit": {"type": "integer", "maximum": 20000, "minimum": 1}
            }
        },
        "dto.AnalysisResponse": {
            "type": "object",
            "properties": {
                "mode": {"type": "string"},
                "rows": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "summary": {"$ref": "#/definitions/dto.AnalysisSummary"}
            }
        },
        "dto.AnalysisSummary": {
            "type": "object",
            "properties": {
                "rows": {"type": "integer"},
                "best": {"$ref": "#/definitions/dto.BestBuilding"},
                "mean_total_score": {"type": "number"},
                "total_squares": {"type": "number"}
            }
        },
        "dto.BestBuilding": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "era": {"type": "string"},
                "weighted_efficiency": {"type": "number"},
                "total_score": {"type": "number"}
            }
        },
        "dto.CityAnalyzeRequest": {
            "type": "object",
            "required": ["kind", "data"],
            "properties": {
                "kind": {"type": "string", "enum": ["inventory", "city"]},
                "data": {"type": "string"},
                "weights": {"type": "object", "additionalProperties": {"type": "number"}},
                "context": {"type": "object", "additionalProperties": true},
                "boosts": {"type": "object", "additionalProperties": true}
            }
        },
        "dto.CityAnalyzeResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "entries": {"type": "integer"},
                "unmatched": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "totals": {"type": "object", "additionalProperties": true}
            }
        },
        "dto.ColumnsResponse": {
            "type": "object",
            "additionalProperties": true
        },
        "dto.DatasetInfo": {
            "type": "object",
            "properties": {
                "hash": {"type": "string"},
                "source": {"type": "string"},
                "origin": {"type": "string", "enum": ["empty", "parse", "cache", "snapshot"]},
                "loaded_at": {"type": "string"},
                "rows": {"type": "integer"},
                "report": {"type": "object", "additionalProperties": true}
            }
        },
        "dto.EraStatsResponse": {
            "type": "object",
            "properties": {
                "era": {"type": "string"},
                "metrics": {"type": "object", "additionalProperties": true}
            }
        },
        "dto.ReloadRequest": {
            "type": "object",
            "properties": {
                "source": {"type": "string"}
            }
        },
        "dto.WeightPresetResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "era": {"type": "string"},
                "weights": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Building Analyzer API",
	Description:      "Анализ эффективности зданий Forge of Empires: загрузка метаданных, оценка по весам, фильтры, выгрузка и анализ города.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
