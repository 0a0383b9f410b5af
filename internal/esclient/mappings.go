package esclient

// ArticleMapping is the settings/mappings body for the article index.
const ArticleMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "semantic_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "stop", "snowball", "asciifolding"]
        },
        "keyword_analyzer": {
          "type": "custom",
          "tokenizer": "keyword",
          "filter": ["lowercase", "trim"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "title": {
        "type": "text",
        "analyzer": "semantic_analyzer",
        "fields": {
          "exact": {"type": "keyword"},
          "suggest": {"type": "completion"}
        }
      },
      "text": {
        "type": "text",
        "analyzer": "semantic_analyzer",
        "term_vector": "with_positions_offsets"
      },
      "summary": {"type": "text", "analyzer": "semantic_analyzer"},
      "keywords": {"type": "keyword"},
      "title_keywords": {"type": "keyword"},
      "ns": {"type": "keyword"},
      "id": {"type": "keyword"},
      "content_type": {"type": "keyword"},
      "quality_score": {"type": "float"},
      "sentence_count": {"type": "integer"},
      "text_length": {"type": "integer"},
      "has_content": {"type": "boolean"},
      "is_substantial": {"type": "boolean"},
      "revision_id": {"type": "keyword"},
      "timestamp": {"type": "date"},
      "contributor_username": {"type": "keyword"},
      "contributor_id": {"type": "keyword"},
      "url": {"type": "keyword"},
      "indexed_at": {"type": "date"},
      "raw_text": {"type": "text", "index": false}
    }
  }
}`

// SemanticMapping is the minimal mapping for the semantic index: the two
// text fields, the 384-dim cosine embedding, and a little metadata.
const SemanticMapping = `{
  "mappings": {
    "properties": {
      "title": {"type": "text", "analyzer": "english"},
      "text": {"type": "text", "analyzer": "english"},
      "content_embedding": {
        "type": "dense_vector",
        "dims": 384,
        "index": true,
        "similarity": "cosine"
      },
      "timestamp": {"type": "date"},
      "contributor_username": {"type": "keyword"}
    }
  }
}`
