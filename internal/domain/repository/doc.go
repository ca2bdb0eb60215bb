// Package repository define los contratos de persistencia del motor de
// moderación y los ports hacia el modelo de contenido externo.
//
// Las entidades viven en internal/domain; los adapters concretos en
// internal/store/{pg,memory}. Cada operación mutante que requiere auditoría
// recibe la LogEntry correspondiente y la escribe en la misma unidad
// atómica que la entidad (tx en PG, sección crítica en memory).
package repository
