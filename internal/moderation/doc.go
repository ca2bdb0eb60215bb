// Package moderation implementa los casos de uso del motor de moderación:
// directorio de roles, ledger de bans, workflow de reports y moderation log.
//
// Todas las operaciones son handlers cortos y stateless contra el store
// compartido; no hay estado vivo en el proceso ni schedulers de fondo
// (la expiración de bans se evalúa lazy en lectura). Los checks de permiso
// caminan la cadena de ancestros en cada llamada; el cache de permisos es
// opcional y la corrección nunca depende de su frescura.
package moderation
